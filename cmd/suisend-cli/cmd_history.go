package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/suisend/suisend/internal/journal"
	"github.com/suisend/suisend/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		wipe  bool
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "history [RUN-ID]",
		Short: "List past transfer runs, or the transfers of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfg.JournalDir()); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(a.out, "No transfer history.")
				return nil
			}
			j, err := journal.Open(a.cfg.JournalDir())
			if err != nil {
				return err
			}
			defer j.Close()

			if wipe {
				if !yes && !a.confirm("Delete all transfer history?") {
					return errAborted
				}
				if err := j.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Transfer history cleared.")
				return nil
			}
			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid run id: %w", err)
				}
				return a.printRun(j, id)
			}
			return a.printRuns(j, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&wipe, "clear", false, "Delete all recorded runs")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) printRuns(j *journal.Journal, limit int) error {
	runs, err := j.Runs(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No transfer history.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tAMOUNT\tSENT\tFAILED\tSENDER")
	for _, r := range runs {
		amount := types.FormatSUIExact(r.AmountMist)
		if r.DryRun {
			amount += " (dry run)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), amount,
			r.Succeeded, r.Recipients, r.Failed, shortAddress(r.Sender))
	}
	return tw.Flush()
}

func (a *app) printRun(j *journal.Journal, id uuid.UUID) error {
	run, err := j.Run(id)
	if err != nil {
		return err
	}
	recs, err := j.Records(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Run:     %s\n", run.ID)
	fmt.Fprintf(a.out, "Network: %s\n", run.Network)
	fmt.Fprintf(a.out, "Sender:  %s\n", run.Sender)
	fmt.Fprintf(a.out, "Amount:  %s SUI each\n", types.FormatSUIExact(run.AmountMist))
	fmt.Fprintf(a.out, "Result:  %d of %d succeeded\n", run.Succeeded, run.Recipients)
	if !run.Finished() {
		fmt.Fprintln(a.out, "         (run did not finish)")
	}
	fmt.Fprintln(a.out)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tRECIPIENT\tSTATUS\tDIGEST / ERROR")
	for _, r := range recs {
		detail := r.Digest
		if r.Error != "" {
			detail = r.Error
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Index+1, r.Recipient, r.Status, detail)
	}
	return tw.Flush()
}

func shortAddress(s string) string {
	if addr, err := types.ParseAddress(s); err == nil {
		return addr.Short()
	}
	return s
}
