// Package main is the entry point for the trace extraction and
// journaling worker.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinayprograms/tracecap/internal/config"
	"github.com/vinayprograms/tracecap/internal/cursor"
	"github.com/vinayprograms/tracecap/internal/journal"
	"github.com/vinayprograms/tracecap/internal/kvstore"
	"github.com/vinayprograms/tracecap/internal/logging"
	"github.com/vinayprograms/tracecap/internal/poll"
)

func main() {
	once := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--once":
			once = true
		case "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", arg)
			printUsage()
			os.Exit(1)
		}
	}

	if err := run(once); err != nil {
		fmt.Fprintf(os.Stderr, "tracecap: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: tracecap [--once]")
}

// run exits non-zero only on configuration error or unrecoverable
// fault (§6), never on a per-session processing error — those are
// logged by the driver and the pass continues (§7).
func run(once bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New()
	defer logger.Sync()

	kv, err := kvstore.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer kv.Close()

	engine := &cursor.Engine{
		KV:     kv,
		Writer: journal.NewWriter(cfg.DestDir),
		Grace:  cfg.MissingSkipSeconds,
		Logger: logger,
	}
	store := cursor.NewStore(cfg.StatePath)
	driver := poll.NewDriver(kv, engine, store, cfg.DestDir, logger)

	if once {
		if err := driver.RunPass(time.Now()); err != nil {
			return fmt.Errorf("run pass: %w", err)
		}
		return nil
	}

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
	}()

	driver.RunForever(cfg.PollInterval, stop)
	return nil
}
