package rpcclient

import (
	"context"
	"fmt"
	"strconv"

	"github.com/suisend/suisend/pkg/types"
)

// DefaultPageSize is the page size requested from suix_getCoins.
const DefaultPageSize = 50

// maxCoinPages bounds AllCoins against a node that never stops paging.
const maxCoinPages = 1000

// GetCoins returns one page of coins of coinType owned by owner.
// An empty cursor starts from the beginning.
func (c *Client) GetCoins(ctx context.Context, owner types.Address, coinType, cursor string, limit int) (*CoinPage, error) {
	var cur interface{}
	if cursor != "" {
		cur = cursor
	}
	var page CoinPage
	if err := c.Call(ctx, "suix_getCoins", &page, owner.String(), coinType, cur, limit); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllCoins follows suix_getCoins cursors until the last page.
func (c *Client) AllCoins(ctx context.Context, owner types.Address, coinType string) ([]Coin, error) {
	var (
		coins  []Coin
		cursor string
	)
	for i := 0; i < maxCoinPages; i++ {
		page, err := c.GetCoins(ctx, owner, coinType, cursor, DefaultPageSize)
		if err != nil {
			return nil, err
		}
		coins = append(coins, page.Data...)
		if !page.HasNextPage || page.NextCursor == nil || *page.NextCursor == cursor {
			return coins, nil
		}
		cursor = *page.NextCursor
	}
	return nil, fmt.Errorf("suix_getCoins: more than %d pages", maxCoinPages)
}

// GetBalance returns the aggregate balance of coinType owned by owner.
func (c *Client) GetBalance(ctx context.Context, owner types.Address, coinType string) (*Balance, error) {
	var bal Balance
	if err := c.Call(ctx, "suix_getBalance", &bal, owner.String(), coinType); err != nil {
		return nil, err
	}
	return &bal, nil
}

// GetChainIdentifier returns the short chain identifier of the node's network.
func (c *Client) GetChainIdentifier(ctx context.Context) (string, error) {
	var id string
	if err := c.Call(ctx, "sui_getChainIdentifier", &id); err != nil {
		return "", err
	}
	return id, nil
}

// GetReferenceGasPrice returns the current reference gas price in MIST.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var price Uint64
	if err := c.Call(ctx, "suix_getReferenceGasPrice", &price); err != nil {
		return 0, err
	}
	return uint64(price), nil
}

// PaySui asks the node to build an unsigned transaction paying amounts[i]
// to recipients[i] from inputCoins. The first input coin pays for gas.
func (c *Client) PaySui(ctx context.Context, signer types.Address, inputCoins []types.ObjectID, recipients []types.Address, amounts []uint64, gasBudget uint64) (*TransactionBytes, error) {
	if len(recipients) != len(amounts) {
		return nil, fmt.Errorf("unsafe_paySui: %d recipients but %d amounts", len(recipients), len(amounts))
	}
	coinIDs := make([]string, len(inputCoins))
	for i, id := range inputCoins {
		coinIDs[i] = id.String()
	}
	to := make([]string, len(recipients))
	for i, r := range recipients {
		to[i] = r.String()
	}
	amts := make([]string, len(amounts))
	for i, a := range amounts {
		amts[i] = strconv.FormatUint(a, 10)
	}

	var tx TransactionBytes
	err := c.Call(ctx, "unsafe_paySui", &tx,
		signer.String(), coinIDs, to, amts, strconv.FormatUint(gasBudget, 10))
	if err != nil {
		return nil, err
	}
	if tx.TxBytes == "" {
		return nil, fmt.Errorf("unsafe_paySui: empty txBytes")
	}
	return &tx, nil
}

// DryRunTransaction simulates txBytes (base64) without committing it.
func (c *Client) DryRunTransaction(ctx context.Context, txBytes string) (*DryRunResponse, error) {
	var resp DryRunResponse
	if err := c.Call(ctx, "sui_dryRunTransactionBlock", &resp, txBytes); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteTransaction submits a signed transaction and waits for local execution.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*TransactionResponse, error) {
	opts := ResponseOptions{ShowEffects: true, ShowObjectChanges: true}
	var resp TransactionResponse
	err := c.Call(ctx, "sui_executeTransactionBlock", &resp, txBytes, signatures, opts, WaitForLocalExecution)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
