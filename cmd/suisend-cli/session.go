package main

import (
	"github.com/suisend/suisend/internal/activity"
	"github.com/suisend/suisend/internal/journal"
	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/internal/rpcclient"
	"github.com/suisend/suisend/internal/transfer"
)

func (a *app) rpcClient() *rpcclient.Client {
	return rpcclient.NewWithTimeout(a.cfg.RPC.URL, a.cfg.RPC.Timeout)
}

// activityLog prints entries to the command output and, when a log file is
// configured, mirrors them into it.
func (a *app) activityLog() *activity.Log {
	sinks := []activity.Sink{activity.NewConsoleSink(a.out)}
	if a.cfg.Log.File != "" {
		sinks = append(sinks, activity.NewZerologSink(log.Activity))
	}
	return activity.New(activity.DefaultCapacity, sinks...)
}

// openJournal opens the transfer journal if enabled. A journal that cannot
// be opened (for example because another process holds it) is skipped.
func (a *app) openJournal() *journal.Journal {
	if !a.cfg.Journal.Enabled {
		return nil
	}
	j, err := journal.Open(a.cfg.JournalDir())
	if err != nil {
		log.Transfer.Warn().Err(err).Msg("Transfer journal unavailable, continuing without it")
		return nil
	}
	return j
}

func (a *app) newSession(jrnl *journal.Journal) (*transfer.Session, error) {
	opts, err := a.cfg.WalletOptions()
	if err != nil {
		return nil, err
	}
	return transfer.NewSession(a.rpcClient(), a.activityLog(), transfer.Config{
		Network:   string(a.cfg.Network),
		GasBudget: a.cfg.Transfer.GasBudget,
		Delay:     a.cfg.Transfer.Delay,
		DryRun:    a.cfg.Transfer.DryRun,
		Wallet:    opts,
		Journal:   jrnl,
	}), nil
}
