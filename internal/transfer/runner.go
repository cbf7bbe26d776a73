package transfer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/suisend/suisend/internal/activity"
	"github.com/suisend/suisend/internal/journal"
	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/crypto"
	"github.com/suisend/suisend/pkg/types"
)

// refreshTimeout bounds the balance refresh after a batch.
const refreshTimeout = 30 * time.Second

// Outcome is what happened for one recipient.
type Outcome struct {
	Recipient types.Address
	Digest    string
	GasMist   uint64
	Err       error
}

// OK reports whether the transfer (or its dry run) succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Result summarises a batch.
type Result struct {
	RunID     uuid.UUID
	Outcomes  []Outcome
	Succeeded int
	// Balance is the refreshed balance; valid when BalanceErr is nil.
	Balance    uint64
	BalanceErr error
}

// Runner sends a Plan one recipient at a time.
type Runner struct {
	client  Client
	signer  crypto.Signer
	log     *activity.Log
	journal *journal.Journal
	network string
}

// NewRunner creates a runner. jrnl may be nil.
func NewRunner(client Client, signer crypto.Signer, alog *activity.Log, jrnl *journal.Journal, network string) *Runner {
	return &Runner{client: client, signer: signer, log: alog, journal: jrnl, network: network}
}

// Run sends plan.AmountMist to each recipient in order. A failure for one
// recipient is logged and the loop moves on. The delay is applied between
// transfers, never after the last one. Run returns a non-nil error only when
// ctx is cancelled; the partial result is returned alongside it.
func (r *Runner) Run(ctx context.Context, plan *Plan) (*Result, error) {
	sender := crypto.Address(r.signer)
	n := len(plan.Recipients)
	amount := types.FormatSUIExact(plan.AmountMist)
	res := &Result{}

	runID := r.startRun(sender, plan)
	res.RunID = runID

	r.log.Info("starting transfer to %d recipients", n)
	pace := newPacer(plan.Delay)

	var runErr error
	for i, to := range plan.Recipients {
		if i > 0 {
			if err := pace.wait(ctx); err != nil {
				runErr = err
				break
			}
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		r.log.Processing("[%d/%d] sending %s SUI to %s...", i+1, n, amount, to)
		out := r.sendOne(ctx, sender, to, plan)
		res.Outcomes = append(res.Outcomes, out)

		var execErr *ExecutionError
		switch {
		case out.OK() && plan.DryRun:
			res.Succeeded++
			r.log.Success("dry run to %s succeeded (estimated gas %s SUI)", to, types.FormatSUIExact(out.GasMist))
		case out.OK():
			res.Succeeded++
			r.log.Success("transfer to %s succeeded! digest: %s", to, out.Digest)
		case errors.As(out.Err, &execErr):
			r.log.Error("transfer to %s failed. status: %s", to, execErr.Status)
		default:
			r.log.Error("failed to send to %s: %v", to, out.Err)
		}
		r.record(runID, i, to, plan, out)
		pace.mark()
	}

	if runErr != nil {
		r.log.Warning("transfer cancelled after %d of %d recipients", len(res.Outcomes), n)
	}
	r.log.Info("transfer finished. %d of %d transfers succeeded", res.Succeeded, n)
	r.finishRun(runID)

	// The refresh runs even when ctx was cancelled so the shown balance is current.
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	defer cancel()
	r.log.Processing("refreshing balance...")
	res.Balance, res.BalanceErr = Balance(refreshCtx, r.client, sender)
	if res.BalanceErr != nil {
		r.log.Error("failed to refresh balance: %v", res.BalanceErr)
	} else {
		r.log.Info("new balance: %s SUI", types.FormatSUI(res.Balance, 6))
	}

	return res, runErr
}

// ExecutionError is an outcome where the node ran the transaction and
// reported a non-success status.
type ExecutionError struct {
	Status string
}

func (e *ExecutionError) Error() string {
	return "execution failed: " + e.Status
}

func executionFailure(msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	return &ExecutionError{Status: msg}
}

func (r *Runner) sendOne(ctx context.Context, sender, to types.Address, plan *Plan) Outcome {
	out := Outcome{Recipient: to}

	coins, err := Coins(ctx, r.client, sender)
	if err != nil {
		out.Err = err
		return out
	}
	sel, err := wallet.SelectCoins(coins, plan.AmountMist+plan.GasBudget)
	if err != nil {
		out.Err = fmt.Errorf("select coins: %w", err)
		return out
	}

	tx, err := r.client.PaySui(ctx, sender, sel.IDs(), []types.Address{to}, []uint64{plan.AmountMist}, plan.GasBudget)
	if err != nil {
		out.Err = fmt.Errorf("build transaction: %w", err)
		return out
	}
	txBytes, err := base64.StdEncoding.DecodeString(tx.TxBytes)
	if err != nil {
		out.Err = fmt.Errorf("decode transaction bytes: %w", err)
		return out
	}
	localDigest := crypto.TransactionDigest(txBytes).String()

	if plan.DryRun {
		dry, err := r.client.DryRunTransaction(ctx, tx.TxBytes)
		if err != nil {
			out.Err = fmt.Errorf("dry run: %w", err)
			return out
		}
		out.Digest = localDigest
		out.GasMist = dry.Effects.GasUsed.Net()
		if !dry.Effects.Status.Succeeded() {
			out.Err = executionFailure(dry.Effects.Status.Error)
		}
		return out
	}

	sig, err := crypto.SignTransaction(r.signer, txBytes)
	if err != nil {
		out.Err = fmt.Errorf("sign transaction: %w", err)
		return out
	}
	resp, err := r.client.ExecuteTransaction(ctx, tx.TxBytes, []string{sig})
	if err != nil {
		out.Err = fmt.Errorf("execute transaction: %w", err)
		return out
	}

	out.Digest = resp.Digest
	if resp.Digest != "" && resp.Digest != localDigest {
		log.Transfer.Warn().Str("node", resp.Digest).Str("local", localDigest).Msg("Digest mismatch")
	}
	if resp.Effects != nil {
		out.GasMist = resp.Effects.GasUsed.Net()
	}
	if st := resp.Status(); !st.Succeeded() {
		out.Err = executionFailure(st.Error)
	}
	return out
}

func (r *Runner) startRun(sender types.Address, plan *Plan) uuid.UUID {
	if r.journal == nil {
		return uuid.Nil
	}
	run := &journal.Run{
		Network:    r.network,
		Sender:     sender.String(),
		AmountMist: plan.AmountMist,
		Recipients: len(plan.Recipients),
		DryRun:     plan.DryRun,
	}
	if err := r.journal.StartRun(run); err != nil {
		log.Transfer.Warn().Err(err).Msg("Journal unavailable for this run")
		return uuid.Nil
	}
	return run.ID
}

func (r *Runner) record(runID uuid.UUID, index int, to types.Address, plan *Plan, out Outcome) {
	if r.journal == nil || runID == uuid.Nil {
		return
	}
	rec := journal.Record{
		RunID:      runID,
		Index:      index,
		Recipient:  to.String(),
		AmountMist: plan.AmountMist,
		Digest:     out.Digest,
		GasMist:    out.GasMist,
		Status:     journal.StatusSuccess,
	}
	switch {
	case out.Err != nil:
		rec.Status = journal.StatusFailed
		rec.Error = out.Err.Error()
	case plan.DryRun:
		rec.Status = journal.StatusDryRun
	}
	if err := r.journal.Append(rec); err != nil {
		log.Transfer.Warn().Err(err).Int("index", index).Msg("Journal append failed")
	}
}

func (r *Runner) finishRun(runID uuid.UUID) {
	if r.journal == nil || runID == uuid.Nil {
		return
	}
	if err := r.journal.FinishRun(runID); err != nil {
		log.Transfer.Warn().Err(err).Msg("Journal finish failed")
	}
}

// pacer enforces a minimum gap between the end of one transfer and the
// start of the next.
type pacer struct {
	delay time.Duration
	lim   *rate.Limiter
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay}
}

// mark starts the gap now.
func (p *pacer) mark() {
	if p.delay <= 0 {
		return
	}
	p.lim = rate.NewLimiter(rate.Every(p.delay), 1)
	p.lim.Allow()
}

// wait blocks until the gap since the last mark has elapsed or ctx ends.
func (p *pacer) wait(ctx context.Context) error {
	if p.lim == nil {
		return ctx.Err()
	}
	return p.lim.Wait(ctx)
}
