package main

import (
	"fmt"
	"os"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var st store.Store
	if cfg.DBPath != "" {
		st, err = store.OpenSQLite(cfg.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
			os.Exit(1)
		}
	} else {
		st = store.NewMemory()
	}
	defer st.Close()

	if cfg.SeedDemo {
		if err := store.SeedDemo(st, time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed demo data: %v\n", err)
			os.Exit(1)
		}
	}

	if err := ui.Run(st, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
