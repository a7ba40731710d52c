package main

import (
	"github.com/AlexandruDodita/vinorg/internal/reorg"
)

// loadConfig loads defaults overlaid with --config (if set) and environment
// variables, the same layering internal/reorg.Manager.Load performs for any
// caller. Subcommands then override individual fields from their own flags.
func loadConfig() (*reorg.Config, *reorg.Manager, error) {
	mgr := reorg.NewManager(configPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, mgr, nil
}
