package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/suisend/suisend/internal/activity"
	"github.com/suisend/suisend/internal/journal"
	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/types"
)

// Config tunes a Session.
type Config struct {
	Network   string
	GasBudget uint64
	Delay     time.Duration
	DryRun    bool
	// Wallet selects the scheme and account for mnemonic credentials.
	Wallet  wallet.Options
	Journal *journal.Journal
}

// Status is a snapshot of the session for display.
type Status struct {
	Connected  bool           `json:"connected"`
	Address    string        `json:"address,omitempty"`
	Scheme     string        `json:"scheme,omitempty"`
	Format     wallet.Format `json:"format,omitempty"`
	Balance    uint64        `json:"balance_mist"`
	BalanceSUI string        `json:"balance_sui,omitempty"`
	HasBalance bool          `json:"has_balance"`
	Busy       bool          `json:"busy"`
	Network    string        `json:"network"`
}

// Session is the connected-wallet state behind both front ends: one
// credential, its address and last known balance. Only one Connect or Send
// runs at a time; a second caller gets ErrBusy.
type Session struct {
	client Client
	log    *activity.Log
	cfg    Config

	mu         sync.RWMutex
	cred       *wallet.Credential
	address    types.Address
	balance    uint64
	hasBalance bool

	busy atomic.Bool
	sf   singleflight.Group
}

// NewSession creates a disconnected session.
func NewSession(client Client, alog *activity.Log, cfg Config) *Session {
	if cfg.GasBudget == 0 {
		cfg.GasBudget = DefaultGasBudget
	}
	return &Session{client: client, log: alog, cfg: cfg}
}

// Log returns the session's activity log.
func (s *Session) Log() *activity.Log { return s.log }

func (s *Session) begin() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (s *Session) end() { s.busy.Store(false) }

// Connect parses credential, derives the account and loads its balance.
// The activity log is cleared first. On any failure the session is left
// disconnected.
func (s *Session) Connect(ctx context.Context, credential string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.reset(true)
	if strings.TrimSpace(credential) == "" {
		s.log.Error("%v", wallet.ErrEmptyCredential)
		return wallet.ErrEmptyCredential
	}

	s.log.Clear()
	s.log.Processing("connecting wallet...")

	cred, err := wallet.ParseCredentialWith(credential, s.cfg.Wallet)
	if errors.Is(err, wallet.ErrInvalidMnemonic) || (err == nil && cred.Format == wallet.FormatMnemonic) {
		s.log.Warning("%s", wallet.MnemonicFallbackWarning)
	}
	if err != nil {
		s.log.Error("failed to connect wallet: %v", err)
		return err
	}
	return s.adopt(ctx, cred)
}

// ConnectCredential connects an already resolved credential (for example
// one loaded from the keystore).
func (s *Session) ConnectCredential(ctx context.Context, cred *wallet.Credential) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.reset(true)
	s.log.Clear()
	s.log.Processing("connecting wallet...")
	return s.adopt(ctx, cred)
}

func (s *Session) adopt(ctx context.Context, cred *wallet.Credential) error {
	addr := cred.Address()
	s.log.Success("wallet connected: %s", addr)
	log.Wallet.Info().Str("address", addr.String()).Str("format", string(cred.Format)).Msg("Wallet connected")

	s.log.Processing("loading SUI balance...")
	bal, err := Balance(ctx, s.client, addr)
	if err != nil {
		cred.Zero()
		s.log.Error("failed to connect wallet: %v", err)
		return err
	}

	s.mu.Lock()
	s.cred = cred
	s.address = addr
	s.balance = bal
	s.hasBalance = true
	s.mu.Unlock()

	s.log.Info("current balance: %s SUI", types.FormatSUI(bal, 6))
	return nil
}

// Disconnect forgets the credential and balance. Front ends call it whenever
// the credential input changes. A batch already running keeps its key.
func (s *Session) Disconnect() {
	s.reset(!s.busy.Load())
}

func (s *Session) reset(wipeKey bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred != nil && wipeKey {
		s.cred.Zero()
	}
	s.cred = nil
	s.address = types.Address{}
	s.balance = 0
	s.hasBalance = false
}

// Connected reports whether a wallet with a known balance is loaded.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred != nil && s.hasBalance
}

// Status returns a display snapshot.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Connected:  s.cred != nil && s.hasBalance,
		Busy:       s.busy.Load(),
		Network:    s.cfg.Network,
		HasBalance: s.hasBalance,
	}
	if s.cred != nil {
		st.Address = s.address.String()
		st.Scheme = s.cred.Scheme().String()
		st.Format = s.cred.Format
	}
	if s.hasBalance {
		st.Balance = s.balance
		st.BalanceSUI = types.FormatSUI(s.balance, 6)
	}
	return st
}

// RefreshBalance reloads the balance. Concurrent calls share one request.
func (s *Session) RefreshBalance(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	addr, ok := s.address, s.cred != nil
	s.mu.RUnlock()
	if !ok {
		return 0, ErrNotConnected
	}

	v, err, _ := s.sf.Do(addr.String(), func() (interface{}, error) {
		return Balance(ctx, s.client, addr)
	})
	if err != nil {
		return 0, err
	}
	bal := v.(uint64)
	s.setBalance(addr, bal)
	return bal, nil
}

func (s *Session) setBalance(addr types.Address, bal uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Ignore results for an account that was swapped out meanwhile.
	if s.cred != nil && s.address == addr {
		s.balance = bal
		s.hasBalance = true
	}
}

// Send validates a batch against the current balance and runs it.
// Validation failures are logged to the activity log and returned.
func (s *Session) Send(ctx context.Context, recipients Recipients, amount string) (*Result, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.mu.RLock()
	cred, addr, bal, connected := s.cred, s.address, s.balance, s.cred != nil && s.hasBalance
	s.mu.RUnlock()

	if !connected {
		s.log.Error("%v", ErrNotConnected)
		return nil, ErrNotConnected
	}
	for _, sk := range recipients.Skipped {
		s.log.Warning("line %d skipped (%s): %s", sk.Line, sk.Reason, sk.Text)
	}

	plan, err := NewPlan(recipients.Addresses, amount, bal, PlanOptions{
		GasBudget: s.cfg.GasBudget,
		Delay:     s.cfg.Delay,
		DryRun:    s.cfg.DryRun,
	})
	if err != nil {
		s.log.Error("%v", err)
		return nil, err
	}
	if total := plan.Total(); total+plan.MaxGas() < total || total+plan.MaxGas() > bal {
		s.log.Warning("balance may not cover gas for every transfer (up to %s SUI reserved)", types.FormatSUI(plan.MaxGas(), 6))
	}

	runner := NewRunner(s.client, cred.Key, s.log, s.cfg.Journal, s.cfg.Network)
	res, err := runner.Run(ctx, plan)
	if res != nil && res.BalanceErr == nil {
		s.setBalance(addr, res.Balance)
	}
	if err != nil {
		return res, fmt.Errorf("transfer interrupted: %w", err)
	}
	return res, nil
}
