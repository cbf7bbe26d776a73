package transfer

import (
	"errors"
	"fmt"
	"time"

	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/types"
)

// Transfer defaults.
const (
	DefaultGasBudget = 20_000_000 // MIST
	DefaultDelay     = 1500 * time.Millisecond
)

// Validation errors.
var (
	ErrNotConnected      = errors.New("wallet not connected, connect a wallet first")
	ErrNoRecipients      = errors.New("no valid recipient addresses, make sure each address starts with \"0x\"")
	ErrInvalidAmount     = types.ErrInvalidAmount
	ErrInsufficientFunds = wallet.ErrInsufficientFunds
	ErrBusy              = errors.New("another operation is in progress")
)

// Plan is a validated transfer batch: the same amount to each recipient.
type Plan struct {
	Recipients []types.Address
	AmountMist uint64
	GasBudget  uint64
	Delay      time.Duration
	DryRun     bool
}

// Total returns AmountMist * len(Recipients).
func (p *Plan) Total() uint64 {
	total, _ := types.MulMist(p.AmountMist, len(p.Recipients))
	return total
}

// MaxGas returns the gas budget reserved across the whole batch.
func (p *Plan) MaxGas() uint64 {
	gas, ok := types.MulMist(p.GasBudget, len(p.Recipients))
	if !ok {
		return ^uint64(0)
	}
	return gas
}

// PlanOptions carries the tunables of a batch.
type PlanOptions struct {
	GasBudget uint64
	Delay     time.Duration
	DryRun    bool
}

// NewPlan checks a batch against the sender's balance, in this order:
// recipients present, amount positive, amount*count within balance.
// Gas is not part of the balance check; callers may warn using MaxGas.
func NewPlan(recipients []types.Address, amount string, balance uint64, opts PlanOptions) (*Plan, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	mist, err := types.ParseSUI(amount)
	if err != nil || mist == 0 {
		return nil, fmt.Errorf("%w: amount per recipient must be a number greater than 0", ErrInvalidAmount)
	}
	total, ok := types.MulMist(mist, len(recipients))
	if !ok || total > balance {
		need := "more than " + types.FormatSUI(^uint64(0), 6)
		if ok {
			need = types.FormatSUI(total, 6)
		}
		return nil, fmt.Errorf("%w: required %s SUI, available %s SUI",
			ErrInsufficientFunds, need, types.FormatSUI(balance, 6))
	}

	if opts.GasBudget == 0 {
		opts.GasBudget = DefaultGasBudget
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	return &Plan{
		Recipients: recipients,
		AmountMist: mist,
		GasBudget:  opts.GasBudget,
		Delay:      opts.Delay,
		DryRun:     opts.DryRun,
	}, nil
}
