package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/suisend/suisend/internal/journal"
	"github.com/suisend/suisend/internal/transfer"
	"github.com/suisend/suisend/pkg/types"
)

// RecipientPreview is the live count shown under the recipient box.
type RecipientPreview struct {
	Valid   int           `json:"valid"`
	Skipped []SkippedLine `json:"skipped"`
}

// SkippedLine is a recipient line that will not be used.
type SkippedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// OutcomeInfo is one transfer of a finished batch.
type OutcomeInfo struct {
	Recipient string `json:"recipient"`
	Digest    string `json:"digest,omitempty"`
	Gas       string `json:"gas,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendResult summarises a batch for the frontend.
type SendResult struct {
	RunID       string        `json:"run_id,omitempty"`
	Network     string        `json:"network"`
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Interrupted bool          `json:"interrupted"`
	Balance     string        `json:"balance,omitempty"`
	Outcomes    []OutcomeInfo `json:"outcomes"`
}

// RunSummary is a journal run as shown in the history table.
type RunSummary struct {
	ID         string `json:"id"`
	Network    string `json:"network"`
	Sender     string `json:"sender"`
	Amount     string `json:"amount"`
	Recipients int    `json:"recipients"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
	DryRun     bool   `json:"dry_run"`
	StartedAt  string `json:"started_at"`
	Finished   bool   `json:"finished"`
}

func previewRecipients(r transfer.Recipients) RecipientPreview {
	p := RecipientPreview{Valid: len(r.Addresses), Skipped: make([]SkippedLine, 0, len(r.Skipped))}
	for _, sk := range r.Skipped {
		p.Skipped = append(p.Skipped, SkippedLine{Line: sk.Line, Text: sk.Text, Reason: sk.Reason})
	}
	return p
}

func toSendResult(res *transfer.Result, network string) *SendResult {
	out := &SendResult{
		Network:   network,
		Total:     len(res.Outcomes),
		Succeeded: res.Succeeded,
		Failed:    len(res.Outcomes) - res.Succeeded,
		Outcomes:  make([]OutcomeInfo, 0, len(res.Outcomes)),
	}
	if res.RunID != uuid.Nil {
		out.RunID = res.RunID.String()
	}
	if res.BalanceErr == nil {
		out.Balance = types.FormatSUI(res.Balance, 6)
	}
	for _, o := range res.Outcomes {
		info := OutcomeInfo{Recipient: o.Recipient.String(), Digest: o.Digest}
		if o.GasMist > 0 {
			info.Gas = types.FormatSUIExact(o.GasMist)
		}
		if o.Err != nil {
			info.Error = o.Err.Error()
		}
		out.Outcomes = append(out.Outcomes, info)
	}
	return out
}

// notification returns the desktop notification for a finished batch.
func notification(r *SendResult) (title, body string) {
	switch {
	case r.Interrupted:
		title = "Transfer cancelled"
	case r.Failed > 0:
		title = "Transfer finished with errors"
	default:
		title = "Transfer complete"
	}
	body = fmt.Sprintf("%d of %d transfers succeeded on %s", r.Succeeded, r.Total, r.Network)
	if r.Balance != "" {
		body += fmt.Sprintf(", balance %s SUI", r.Balance)
	}
	return title, body
}

func toRunSummary(r *journal.Run) RunSummary {
	return RunSummary{
		ID:         r.ID.String(),
		Network:    r.Network,
		Sender:     r.Sender,
		Amount:     types.FormatSUIExact(r.AmountMist),
		Recipients: r.Recipients,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		Finished:   r.Finished(),
	}
}
