package main

import (
	"context"
	"sync"

	"github.com/suisend/suisend/internal/transfer"
)

// notify shows a desktop notification; replaced in tests.
var notify = sendOSNotification

// TransferService runs batches for the connected wallet.
type TransferService struct {
	app *App

	mu     sync.Mutex
	cancel context.CancelFunc
}

// PreviewRecipients parses the recipient box without sending anything.
func (t *TransferService) PreviewRecipients(text string) RecipientPreview {
	return previewRecipients(transfer.ParseRecipients(text))
}

// Send validates and runs a batch. It blocks until the batch ends; entries
// stream to the frontend through the activity event meanwhile.
func (t *TransferService) Send(recipients, amount string) (*SendResult, error) {
	sess, release, err := t.app.beginSend()
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := context.WithCancel(t.app.context())
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.cancel = nil
		t.mu.Unlock()
		cancel()
	}()

	res, err := sess.Send(ctx, transfer.ParseRecipients(recipients), amount)
	if res == nil {
		return nil, err
	}
	out := toSendResult(res, sess.Status().Network)
	if err != nil {
		out.Interrupted = true
	}
	notify(notification(out))
	return out, nil
}

// Cancel stops a running batch after the current transfer.
func (t *TransferService) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel == nil {
		return false
	}
	t.cancel()
	return true
}

// History returns the most recent journal runs, newest first.
func (t *TransferService) History(limit int) ([]RunSummary, error) {
	j := t.app.journal()
	if j == nil {
		return []RunSummary{}, nil
	}
	runs, err := j.Runs(limit)
	if err != nil {
		return nil, err
	}
	out := make([]RunSummary, 0, len(runs))
	for i := range runs {
		out = append(out, toRunSummary(&runs[i]))
	}
	return out, nil
}

// ClearHistory deletes every journal run.
func (t *TransferService) ClearHistory() error {
	j := t.app.journal()
	if j == nil {
		return nil
	}
	return j.Clear()
}
