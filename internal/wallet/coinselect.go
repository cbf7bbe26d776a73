package wallet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/suisend/suisend/pkg/types"
)

// MaxInputCoins caps how many coin objects one transaction may consume.
const MaxInputCoins = 256

// Coin selection errors.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoCoins           = errors.New("no coins available")
)

// Coin is a SUI coin object owned by the account.
type Coin struct {
	ObjectID types.ObjectID
	Version  uint64
	Digest   string
	Balance  uint64
}

// CoinSelection holds the result of coin selection.
type CoinSelection struct {
	Inputs []Coin
	Total  uint64
	Change uint64 // Total - target; stays in the gas coin.
}

// IDs returns the object ids of the selected coins in order.
func (s *CoinSelection) IDs() []types.ObjectID {
	ids := make([]types.ObjectID, len(s.Inputs))
	for i, c := range s.Inputs {
		ids[i] = c.ObjectID
	}
	return ids
}

// SelectCoins chooses coin objects covering target (transfer amount plus
// gas budget). It compares two strategies and keeps the one with less change:
//  1. the smallest single coin that covers target;
//  2. largest-first accumulation, bounded by MaxInputCoins.
func SelectCoins(coins []Coin, target uint64) (*CoinSelection, error) {
	if target == 0 {
		return nil, fmt.Errorf("target must be positive")
	}

	candidates := make([]Coin, 0, len(coins))
	var available uint64
	for _, c := range coins {
		if c.Balance > 0 {
			candidates = append(candidates, c)
			available += c.Balance
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoCoins
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Balance < candidates[j].Balance
	})

	var single *CoinSelection
	idx := sort.Search(len(candidates), func(i int) bool { return candidates[i].Balance >= target })
	if idx < len(candidates) {
		c := candidates[idx]
		single = &CoinSelection{Inputs: []Coin{c}, Total: c.Balance, Change: c.Balance - target}
	}

	var accum *CoinSelection
	var picked []Coin
	var total uint64
	for i := len(candidates) - 1; i >= 0 && len(picked) < MaxInputCoins; i-- {
		picked = append(picked, candidates[i])
		total += candidates[i].Balance
		if total >= target {
			accum = &CoinSelection{Inputs: picked, Total: total, Change: total - target}
			break
		}
	}

	switch {
	case single != nil && accum != nil:
		if single.Change <= accum.Change {
			return single, nil
		}
		return accum, nil
	case single != nil:
		return single, nil
	case accum != nil:
		return accum, nil
	case available >= target:
		return nil, fmt.Errorf("%w: target needs more than %d coin objects, merge coins first", ErrInsufficientFunds, MaxInputCoins)
	default:
		return nil, fmt.Errorf("%w: have %s SUI, need %s SUI", ErrInsufficientFunds,
			types.FormatSUIExact(available), types.FormatSUIExact(target))
	}
}
