package transfer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/suisend/suisend/internal/rpcclient"
	"github.com/suisend/suisend/pkg/crypto"
	"github.com/suisend/suisend/pkg/types"
)

// fakeChain is an in-memory Client: it keeps coin balances per owner and
// applies paySui transfers on execute.
type fakeChain struct {
	mu      sync.Mutex
	coins   map[types.Address][]rpcclient.Coin
	nextID  byte
	seq     int
	pending map[string]pendingTx

	gasCost     uint64
	failFor     map[types.Address]string // recipient -> effects error
	buildErrFor map[types.Address]error
	listErr     error
	executed    []string
	dryRuns     int
	verifySigs  bool
}

type pendingTx struct {
	signer types.Address
	coins  []types.ObjectID
	to     types.Address
	amount uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		coins:       make(map[types.Address][]rpcclient.Coin),
		pending:     make(map[string]pendingTx),
		failFor:     make(map[types.Address]string),
		buildErrFor: make(map[types.Address]error),
		gasCost:     1_000_000,
		verifySigs:  true,
	}
}

func (f *fakeChain) fund(owner types.Address, balances ...uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range balances {
		f.nextID++
		f.coins[owner] = append(f.coins[owner], rpcclient.Coin{
			CoinType:     types.CoinTypeSUI,
			CoinObjectID: types.ObjectID{0: 0xcc, 31: f.nextID},
			Version:      1,
			Balance:      rpcclient.Uint64(b),
		})
	}
}

func (f *fakeChain) AllCoins(_ context.Context, owner types.Address, coinType string) ([]rpcclient.Coin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if coinType != types.CoinTypeSUI {
		return nil, fmt.Errorf("unexpected coin type %s", coinType)
	}
	return append([]rpcclient.Coin(nil), f.coins[owner]...), nil
}

func (f *fakeChain) PaySui(_ context.Context, signer types.Address, inputCoins []types.ObjectID, recipients []types.Address, amounts []uint64, gasBudget uint64) (*rpcclient.TransactionBytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(recipients) != 1 || len(amounts) != 1 {
		return nil, errors.New("fake supports one recipient")
	}
	if err := f.buildErrFor[recipients[0]]; err != nil {
		return nil, err
	}
	if gasBudget == 0 || len(inputCoins) == 0 {
		return nil, errors.New("bad build request")
	}
	f.seq++
	raw := []byte(fmt.Sprintf("tx-%d-%s-%s-%d", f.seq, signer, recipients[0], amounts[0]))
	b64 := base64.StdEncoding.EncodeToString(raw)
	f.pending[b64] = pendingTx{signer: signer, coins: inputCoins, to: recipients[0], amount: amounts[0]}
	return &rpcclient.TransactionBytes{TxBytes: b64}, nil
}

func (f *fakeChain) DryRunTransaction(_ context.Context, txBytes string) (*rpcclient.DryRunResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.pending[txBytes]
	if !ok {
		return nil, errors.New("unknown tx")
	}
	f.dryRuns++
	resp := &rpcclient.DryRunResponse{}
	resp.Effects.Status.Status = "success"
	resp.Effects.GasUsed.ComputationCost = rpcclient.Uint64(f.gasCost)
	if msg, bad := f.failFor[tx.to]; bad {
		resp.Effects.Status = rpcclient.ExecutionStatus{Status: "failure", Error: msg}
	}
	return resp, nil
}

func (f *fakeChain) ExecuteTransaction(_ context.Context, txBytes string, signatures []string) (*rpcclient.TransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.pending[txBytes]
	if !ok {
		return nil, errors.New("unknown tx")
	}
	raw, _ := base64.StdEncoding.DecodeString(txBytes)
	if f.verifySigs {
		if len(signatures) != 1 {
			return nil, errors.New("expected one signature")
		}
		if err := crypto.VerifyTransaction(raw, signatures[0]); err != nil {
			return nil, err
		}
	}
	delete(f.pending, txBytes)
	f.executed = append(f.executed, txBytes)

	digest := crypto.TransactionDigest(raw).String()
	effects := &rpcclient.Effects{Status: rpcclient.ExecutionStatus{Status: "success"}}
	effects.GasUsed.ComputationCost = rpcclient.Uint64(f.gasCost)
	if msg, bad := f.failFor[tx.to]; bad {
		effects.Status = rpcclient.ExecutionStatus{Status: "failure", Error: msg}
		f.debit(tx.signer, tx.coins, f.gasCost)
		return &rpcclient.TransactionResponse{Digest: digest, Effects: effects}, nil
	}

	f.debit(tx.signer, tx.coins, tx.amount+f.gasCost)
	f.nextID++
	f.coins[tx.to] = append(f.coins[tx.to], rpcclient.Coin{
		CoinObjectID: types.ObjectID{0: 0xdd, 31: f.nextID},
		Balance:      rpcclient.Uint64(tx.amount),
	})
	return &rpcclient.TransactionResponse{Digest: digest, Effects: effects}, nil
}

// debit merges the input coins into the first one and subtracts amount.
func (f *fakeChain) debit(owner types.Address, ids []types.ObjectID, amount uint64) {
	used := make(map[types.ObjectID]bool, len(ids))
	for _, id := range ids {
		used[id] = true
	}
	var total uint64
	var kept []rpcclient.Coin
	for _, c := range f.coins[owner] {
		if used[c.CoinObjectID] {
			total += uint64(c.Balance)
			continue
		}
		kept = append(kept, c)
	}
	kept = append(kept, rpcclient.Coin{CoinObjectID: ids[0], Version: 2, Balance: rpcclient.Uint64(total - amount)})
	f.coins[owner] = kept
}

func (f *fakeChain) balanceOf(owner types.Address) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total uint64
	for _, c := range f.coins[owner] {
		total += uint64(c.Balance)
	}
	return total
}
