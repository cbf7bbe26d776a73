package transfer

import (
	"context"
	"fmt"

	"github.com/suisend/suisend/internal/rpcclient"
	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/types"
)

// Client is the subset of the node API a transfer needs.
type Client interface {
	AllCoins(ctx context.Context, owner types.Address, coinType string) ([]rpcclient.Coin, error)
	PaySui(ctx context.Context, signer types.Address, inputCoins []types.ObjectID, recipients []types.Address, amounts []uint64, gasBudget uint64) (*rpcclient.TransactionBytes, error)
	DryRunTransaction(ctx context.Context, txBytes string) (*rpcclient.DryRunResponse, error)
	ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*rpcclient.TransactionResponse, error)
}

// CoinLister lists the coins an address owns.
type CoinLister interface {
	AllCoins(ctx context.Context, owner types.Address, coinType string) ([]rpcclient.Coin, error)
}

// Coins returns every SUI coin object owned by owner.
func Coins(ctx context.Context, c CoinLister, owner types.Address) ([]wallet.Coin, error) {
	raw, err := c.AllCoins(ctx, owner, types.CoinTypeSUI)
	if err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	coins := make([]wallet.Coin, len(raw))
	for i, rc := range raw {
		coins[i] = wallet.Coin{
			ObjectID: rc.CoinObjectID,
			Version:  uint64(rc.Version),
			Digest:   rc.Digest,
			Balance:  uint64(rc.Balance),
		}
	}
	return coins, nil
}

// Balance sums the balances of every SUI coin owned by owner, following
// all pages.
func Balance(ctx context.Context, c CoinLister, owner types.Address) (uint64, error) {
	coins, err := Coins(ctx, c, owner)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, coin := range coins {
		if total+coin.Balance < total {
			return 0, fmt.Errorf("balance overflows u64")
		}
		total += coin.Balance
	}
	return total, nil
}
