package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suisend/suisend/config"
	"github.com/suisend/suisend/internal/transfer"
	"github.com/suisend/suisend/pkg/types"
)

var (
	errAborted       = errors.New("aborted")
	errStdinNeedsYes = errors.New("reading recipients from stdin requires --yes")
)

func newSendCmd(a *app) *cobra.Command {
	var (
		to             []string
		recipientsFile string
		amount         string
		yes            bool
	)
	cmd := &cobra.Command{
		Use:   "send --amount SUI (--to ADDRESS... | --recipients FILE)",
		Short: "Send the same amount to every recipient",
		Long: `Send transfers AMOUNT SUI to each recipient in order, one transaction at a
time, pausing --delay between transfers. A failed transfer is reported and
the batch moves on to the next recipient.

Recipients come from repeated --to flags and/or a file with one address per
line (--recipients, "-" for stdin). Lines that are not addresses are skipped
with a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The confirmation prompt reads stdin too.
			if recipientsFile == "-" && !yes {
				return errStdinNeedsYes
			}
			text, err := a.recipientText(to, recipientsFile)
			if err != nil {
				return err
			}
			recipients := transfer.ParseRecipients(text)

			jrnl := a.openJournal()
			if jrnl != nil {
				defer jrnl.Close()
			}
			sess, err := a.newSession(jrnl)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.connect(ctx, sess); err != nil {
				return err
			}
			if !yes && !a.confirmBatch(sess.Status(), recipients, amount) {
				return errAborted
			}

			res, err := sess.Send(ctx, recipients, amount)
			if err != nil {
				return reported(err)
			}
			if failed := len(res.Outcomes) - res.Succeeded; failed > 0 {
				return reported(fmt.Errorf("%d of %d transfers failed", failed, len(res.Outcomes)))
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringArrayVarP(&to, "to", "t", nil, "Recipient address (repeatable)")
	fs.StringVarP(&recipientsFile, "recipients", "r", "", `File with one recipient per line ("-" for stdin)`)
	fs.StringVarP(&amount, "amount", "a", "", "Amount of SUI per recipient, e.g. 0.5")
	fs.BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	config.RegisterTransferFlags(fs)
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

// recipientText joins --to values and the recipients file into one
// newline-separated list.
func (a *app) recipientText(to []string, file string) (string, error) {
	lines := append([]string(nil), to...)
	if file != "" {
		var (
			data []byte
			err  error
		)
		if file == "-" {
			data, err = io.ReadAll(a.in)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return "", fmt.Errorf("read recipients: %w", err)
		}
		lines = append(lines, string(data))
	}
	if len(lines) == 0 {
		return "", errors.New("no recipients: use --to or --recipients")
	}
	return strings.Join(lines, "\n"), nil
}

// confirmBatch summarises the batch and asks before sending. Batches that
// will fail validation are not confirmed; Send reports why.
func (a *app) confirmBatch(st transfer.Status, recipients transfer.Recipients, amount string) bool {
	plan, err := transfer.NewPlan(recipients.Addresses, amount, st.Balance, transfer.PlanOptions{
		GasBudget: a.cfg.Transfer.GasBudget,
		Delay:     a.cfg.Transfer.Delay,
		DryRun:    a.cfg.Transfer.DryRun,
	})
	if err != nil {
		return true
	}
	verb := "Send"
	if plan.DryRun {
		verb = "Simulate sending"
	}
	return a.confirm(fmt.Sprintf("%s %s SUI to %d recipients (%s SUI total) on %s?",
		verb, types.FormatSUIExact(plan.AmountMist), len(plan.Recipients),
		types.FormatSUIExact(plan.Total()), a.cfg.Network))
}
