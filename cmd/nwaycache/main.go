// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// nwaycache is a demonstration driver and interactive shell for the
// set-associative cache.
//
// Usage:
//
//	nwaycache [flags]          Start an interactive shell
//	nwaycache --demo           Run the 1-way and 2-way demonstrations
//
// Flags:
//
//	-c, --config       Config file (.json, .jsonc, .yaml, .yml)
//	-p, --policy       Eviction policy: setassoc (default) or lru
//	-w, --ways         Entries per slot
//	-n, --capacity     Maximum number of slots
//	    --log-level    debug, info, warn or error
//	    --demo         Run the demonstrations and exit
//
// When stdin is not a terminal, commands are read one per line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterh/liner"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"

	"github.com/luxfi/nwaycache"
	"github.com/luxfi/nwaycache/lru"
	"github.com/luxfi/nwaycache/metercacher"
	"github.com/luxfi/nwaycache/setassoc"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "nwaycache: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("nwaycache", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.StringP("config", "c", "", "config file (.json, .jsonc, .yaml, .yml)")
	policy := flags.StringP("policy", "p", "", "eviction policy: setassoc or lru")
	ways := flags.IntP("ways", "w", 0, "entries per slot")
	capacity := flags.IntP("capacity", "n", 0, "maximum number of slots")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn or error")
	demo := flags.Bool("demo", false, "run the demonstrations and exit")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flags.Changed("policy") {
		cfg.Policy = *policy
	}
	if flags.Changed("ways") {
		cfg.Ways = *ways
	}
	if flags.Changed("capacity") {
		cfg.Capacity = *capacity
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if *demo {
		return runDemo(stdout, logger)
	}

	raw, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	metered, err := metercacher.New[string, string](cfg.MetricsNamespace, registry, raw)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	logger.Info("cache ready",
		"policy", cfg.Policy,
		"ways", cfg.Ways,
		"capacity", cfg.Capacity,
	)

	sh := &shell{
		cache:    metered,
		inspect:  raw,
		gatherer: registry,
		out:      stdout,
	}
	if f, ok := stdin.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() && isTerminal(f) {
		return sh.runInteractive()
	}
	return sh.runScript(stdin)
}

// cache is what the shell needs from a policy.
type cache interface {
	nwaycache.Cacher[string, string]
	nwaycache.Inspector[string]
}

func newCache(cfg Config, logger *slog.Logger) (cache, error) {
	if cfg.Policy == policyLRU {
		return lru.NewCache[string, string](cfg.MaxEntries()), nil
	}
	c, err := setassoc.NewFromConfig(cfg.Config, setassoc.WithLogger[string, string](logger))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
