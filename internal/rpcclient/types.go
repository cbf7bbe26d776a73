package rpcclient

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/suisend/suisend/pkg/types"
)

// Uint64 is a u64 that the node may encode as a JSON string or number.
type Uint64 uint64

// UnmarshalJSON accepts "123" and 123.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid u64: %s", data)
		}
		*u = Uint64(n)
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u64 %q: %w", s, err)
	}
	*u = Uint64(n)
	return nil
}

// MarshalJSON renders the value as a decimal string, as the node expects.
func (u Uint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

// Coin is one coin object returned by suix_getCoins.
type Coin struct {
	CoinType            string         `json:"coinType"`
	CoinObjectID        types.ObjectID `json:"coinObjectId"`
	Version             Uint64         `json:"version"`
	Digest              string         `json:"digest"`
	Balance             Uint64         `json:"balance"`
	PreviousTransaction string         `json:"previousTransaction,omitempty"`
}

// CoinPage is one page of suix_getCoins.
type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// Balance is the result of suix_getBalance.
type Balance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    Uint64 `json:"totalBalance"`
}

// TransactionBytes is the unsigned transaction returned by unsafe_* builders.
type TransactionBytes struct {
	TxBytes string `json:"txBytes"`
}

// ExecutionStatus is effects.status.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Succeeded reports whether the transaction executed successfully.
func (s ExecutionStatus) Succeeded() bool { return s.Status == "success" }

// GasCostSummary is effects.gasUsed.
type GasCostSummary struct {
	ComputationCost Uint64 `json:"computationCost"`
	StorageCost     Uint64 `json:"storageCost"`
	StorageRebate   Uint64 `json:"storageRebate"`
}

// Net returns computation + storage - rebate, floored at zero.
func (g GasCostSummary) Net() uint64 {
	spent := uint64(g.ComputationCost) + uint64(g.StorageCost)
	if uint64(g.StorageRebate) >= spent {
		return 0
	}
	return spent - uint64(g.StorageRebate)
}

// Effects is the subset of transaction effects the tool reads.
type Effects struct {
	Status          ExecutionStatus `json:"status"`
	GasUsed         GasCostSummary  `json:"gasUsed"`
	TransactionHash string          `json:"transactionDigest,omitempty"`
}

// ObjectChange is one entry of objectChanges.
type ObjectChange struct {
	Type     string `json:"type"`
	ObjectID string `json:"objectId,omitempty"`
	// ObjectType is absent for published packages.
	ObjectType string `json:"objectType,omitempty"`
}

// TransactionResponse is the result of sui_executeTransactionBlock.
type TransactionResponse struct {
	Digest        string         `json:"digest"`
	Effects       *Effects       `json:"effects,omitempty"`
	ObjectChanges []ObjectChange `json:"objectChanges,omitempty"`
	Errors        []string       `json:"errors,omitempty"`
}

// Status returns effects.status, or an unknown failure when effects are missing.
func (r *TransactionResponse) Status() ExecutionStatus {
	if r.Effects == nil {
		return ExecutionStatus{Status: "failure"}
	}
	return r.Effects.Status
}

// DryRunResponse is the result of sui_dryRunTransactionBlock.
type DryRunResponse struct {
	Effects       Effects        `json:"effects"`
	ObjectChanges []ObjectChange `json:"objectChanges,omitempty"`
}

// ResponseOptions selects what sui_executeTransactionBlock returns.
type ResponseOptions struct {
	ShowInput          bool `json:"showInput,omitempty"`
	ShowEffects        bool `json:"showEffects,omitempty"`
	ShowEvents         bool `json:"showEvents,omitempty"`
	ShowObjectChanges  bool `json:"showObjectChanges,omitempty"`
	ShowBalanceChanges bool `json:"showBalanceChanges,omitempty"`
}

// Execution request types.
const (
	WaitForEffectsCert    = "WaitForEffectsCert"
	WaitForLocalExecution = "WaitForLocalExecution"
)
