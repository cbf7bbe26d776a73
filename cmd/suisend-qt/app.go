package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/suisend/suisend/config"
	"github.com/suisend/suisend/internal/activity"
	"github.com/suisend/suisend/internal/journal"
	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/internal/rpcclient"
	"github.com/suisend/suisend/internal/transfer"
	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/types"
)

// activityEvent is the frontend event carrying each new activity entry.
const activityEvent = "activity"

var errNotReady = errors.New("application is not configured, check the settings")

// qtSettings is the persistent configuration written to qt-settings.json.
// Empty fields fall back to the config file and its defaults.
type qtSettings struct {
	RPCEndpoint string `json:"rpc_endpoint,omitempty"`
	DataDir     string `json:"data_dir,omitempty"`
	Network     string `json:"network,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

// App manages application lifecycle, settings and the wallet session.
type App struct {
	ctx context.Context

	mu          sync.RWMutex
	settingsDir string
	settings    qtSettings
	cfg         *config.Config
	sess        *transfer.Session
	jrnl        *journal.Journal
	logFile     string
	// sending counts batches holding sess and jrnl; reload waits for zero.
	sending int

	// log outlives sessions so the history survives a network switch.
	log *activity.Log

	wallet   *WalletService
	transfer *TransferService
	activity *ActivityService
}

// NewApp creates the application with settings from the default data dir.
func NewApp() *App {
	return newApp(config.DefaultDataDir())
}

func newApp(settingsDir string) *App {
	app := &App{
		settingsDir: settingsDir,
	}
	// log.Activity is replaced by log.Init, so resolve it per entry.
	app.log = activity.New(activity.DefaultCapacity, activity.SinkFunc(func(e activity.Entry) {
		activity.NewZerologSink(log.Activity).Write(e)
	}))
	app.wallet = &WalletService{app: app}
	app.transfer = &TransferService{app: app}
	app.activity = &ActivityService{app: app}
	app.loadSettings()
	return app
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.AddSink(activity.SinkFunc(func(e activity.Entry) {
		runtime.EventsEmit(ctx, activityEvent, e)
	}))
	if err := a.reload(); err != nil {
		a.log.Error("configuration error: %v", err)
	}
}

func (a *App) shutdown(_ context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
}

func (a *App) closeLocked() {
	if a.sess != nil {
		a.sess.Disconnect()
		a.sess = nil
	}
	if a.jrnl != nil {
		if err := a.jrnl.Close(); err != nil {
			log.Storage.Warn().Err(err).Msg("Closing journal")
		}
		a.jrnl = nil
	}
}

// reload rebuilds the configuration and session from the settings. The
// current wallet is disconnected.
func (a *App) reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sending > 0 || (a.sess != nil && a.sess.Status().Busy) {
		return transfer.ErrBusy
	}
	a.closeLocked()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := config.EnsureDataDirs(cfg); err != nil {
		return err
	}
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(cfg.LogsDir(), "suisend-qt.log")
	}
	if logFile != a.logFile {
		if err := log.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		a.logFile = logFile
	}

	opts, err := cfg.WalletOptions()
	if err != nil {
		return err
	}
	if cfg.Journal.Enabled {
		if j, err := journal.Open(cfg.JournalDir()); err != nil {
			log.Transfer.Warn().Err(err).Msg("Transfer journal unavailable, continuing without it")
		} else {
			a.jrnl = j
		}
	}

	a.cfg = cfg
	a.sess = transfer.NewSession(rpcclient.NewWithTimeout(cfg.RPC.URL, cfg.RPC.Timeout), a.log, transfer.Config{
		Network:   string(cfg.Network),
		GasBudget: cfg.Transfer.GasBudget,
		Delay:     cfg.Transfer.Delay,
		DryRun:    cfg.Transfer.DryRun,
		Wallet:    opts,
		Journal:   a.jrnl,
	})
	log.Logger.Info().Str("network", string(cfg.Network)).Str("rpc", cfg.RPC.URL).Msg("Session ready")
	return nil
}

// loadConfig layers the app settings over the config file.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(a.settings.DataDir)
	if err != nil {
		return nil, err
	}
	if a.settings.Network != "" && config.NetworkType(a.settings.Network) != cfg.Network {
		cfg.Network = config.NetworkType(a.settings.Network)
		cfg.RPC.URL = config.DefaultRPCURL(cfg.Network)
	}
	if a.settings.RPCEndpoint != "" {
		cfg.RPC.URL = a.settings.RPCEndpoint
	}
	if a.settings.DryRun {
		cfg.Transfer.DryRun = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session returns the current session or errNotReady.
func (a *App) session() (*transfer.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.sess == nil {
		return nil, errNotReady
	}
	return a.sess, nil
}

// beginSend pins the current session and journal for a batch. reload
// refuses with ErrBusy until release is called.
func (a *App) beginSend() (sess *transfer.Session, release func(), err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess == nil {
		return nil, nil, errNotReady
	}
	a.sending++
	var once sync.Once
	return a.sess, func() {
		once.Do(func() {
			a.mu.Lock()
			a.sending--
			a.mu.Unlock()
		})
	}, nil
}

func (a *App) journal() *journal.Journal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.jrnl
}

// settingsPath returns the path to qt-settings.json.
func (a *App) settingsPath() string {
	return filepath.Join(a.settingsDir, "qt-settings.json")
}

// ── Settings persistence ─────────────────────────────────────────────

func (a *App) loadSettings() {
	data, err := os.ReadFile(a.settingsPath())
	if err != nil {
		return // first launch or missing file: use defaults
	}
	var s qtSettings
	if err := json.Unmarshal(data, &s); err != nil {
		log.Logger.Warn().Err(err).Msg("Ignoring unreadable qt-settings.json")
		return
	}
	a.settings = s
}

func (a *App) saveSettings() error {
	a.mu.RLock()
	data, err := json.MarshalIndent(a.settings, "", "  ")
	a.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.settingsDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(a.settingsPath(), data, 0600)
}

// update applies fn to the settings, persists them and rebuilds the session.
func (a *App) update(fn func(*qtSettings)) error {
	a.mu.Lock()
	prev := a.settings
	fn(&a.settings)
	a.mu.Unlock()

	if err := a.reload(); err != nil {
		a.mu.Lock()
		a.settings = prev
		a.mu.Unlock()
		if !errors.Is(err, transfer.ErrBusy) {
			if rerr := a.reload(); rerr != nil {
				log.Logger.Warn().Err(rerr).Msg("Restoring previous settings")
			}
		}
		return err
	}
	return a.saveSettings()
}

// ── Getters / Setters (each setter persists) ─────────────────────────

// Settings is what the settings panel shows.
type Settings struct {
	Network     string   `json:"network"`
	Networks    []string `json:"networks"`
	RPCEndpoint string   `json:"rpc_endpoint"`
	DataDir     string   `json:"data_dir"`
	DryRun      bool     `json:"dry_run"`
	GasBudget   string   `json:"gas_budget"`
	Delay       string   `json:"delay"`
}

// GetSettings returns the effective settings.
func (a *App) GetSettings() (*Settings, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.cfg == nil {
		return nil, errNotReady
	}
	networks := make([]string, len(config.Networks))
	for i, n := range config.Networks {
		networks[i] = string(n)
	}
	return &Settings{
		Network:     string(a.cfg.Network),
		Networks:    networks,
		RPCEndpoint: a.cfg.RPC.URL,
		DataDir:     a.cfg.DataDir,
		DryRun:      a.cfg.Transfer.DryRun,
		GasBudget:   types.FormatSUIExact(a.cfg.Transfer.GasBudget),
		Delay:       a.cfg.Transfer.Delay.String(),
	}, nil
}

// SetNetwork switches network and resets the RPC endpoint to its default.
func (a *App) SetNetwork(network string) error {
	return a.update(func(s *qtSettings) {
		s.Network = network
		s.RPCEndpoint = ""
	})
}

// SetRPCEndpoint overrides the node URL. An empty endpoint restores the
// network default.
func (a *App) SetRPCEndpoint(endpoint string) error {
	return a.update(func(s *qtSettings) { s.RPCEndpoint = endpoint })
}

// SetDataDir moves the keystore, journal and logs to dir.
func (a *App) SetDataDir(dir string) error {
	return a.update(func(s *qtSettings) { s.DataDir = dir })
}

// SetDryRun toggles simulation mode.
func (a *App) SetDryRun(dryRun bool) error {
	return a.update(func(s *qtSettings) { s.DryRun = dryRun })
}

// TestConnection checks if the node is reachable and returns its chain id.
func (a *App) TestConnection() (string, error) {
	a.mu.RLock()
	cfg := a.cfg
	a.mu.RUnlock()
	if cfg == nil {
		return "", errNotReady
	}
	ctx, cancel := context.WithTimeout(a.context(), cfg.RPC.Timeout)
	defer cancel()
	return rpcclient.NewWithTimeout(cfg.RPC.URL, cfg.RPC.Timeout).GetChainIdentifier(ctx)
}

// context returns the app context, or Background before startup.
func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

func (a *App) rpcTimeout() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.cfg == nil {
		return rpcclient.DefaultTimeout
	}
	return a.cfg.RPC.Timeout
}

func (a *App) walletOptions() (wallet.Options, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.cfg == nil {
		return wallet.Options{}, errNotReady
	}
	return a.cfg.WalletOptions()
}
