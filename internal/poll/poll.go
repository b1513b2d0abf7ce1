// Package poll implements the Poll Driver (§4.8): one pass scans
// sessions, runs the cursor engine per session, and persists state.
package poll

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vinayprograms/tracecap/internal/cursor"
)

// Scanner is the subset of the Key-Value Source Adapter the driver
// needs to enumerate sessions.
type Scanner interface {
	Scan(cursor uint64, pattern string, count int64) (nextCursor uint64, keys []string, err error)
}

const (
	sessionInfoPattern = "session:*:info"
	sessionInfoPrefix  = "session:"
	sessionInfoSuffix  = ":info"
	scanBatchSize      = 1000
)

// Sessions implements §4.8's session scan: iterate session:*:info keys
// via the store's cursor-based scan primitive (batch size 1000),
// stripping the key's prefix/suffix to recover the session identifier.
// The scan terminates when the cursor returns to 0.
func Sessions(kv Scanner) ([]string, error) {
	var ids []string
	var c uint64
	for {
		next, keys, err := kv.Scan(c, sessionInfoPattern, scanBatchSize)
		if err != nil {
			return nil, fmt.Errorf("poll: scan sessions: %w", err)
		}
		for _, key := range keys {
			id := strings.TrimSuffix(strings.TrimPrefix(key, sessionInfoPrefix), sessionInfoSuffix)
			if id == "" {
				continue
			}
			ids = append(ids, id)
		}
		c = next
		if c == 0 {
			break
		}
	}
	return ids, nil
}

// Driver orchestrates passes: create directories, load state, scan
// sessions, run the cursor engine per session in scan order, save state.
type Driver struct {
	KV      Scanner
	Engine  *cursor.Engine
	Store   *cursor.Store
	DestDir string
	Logger  *zap.Logger
}

// NewDriver returns a ready Driver.
func NewDriver(kv Scanner, engine *cursor.Engine, store *cursor.Store, destDir string, logger *zap.Logger) *Driver {
	return &Driver{
		KV:      kv,
		Engine:  engine,
		Store:   store,
		DestDir: destDir,
		Logger:  logger,
	}
}

// RunPass performs exactly one pass: §4.8's create-dirs, load, scan,
// process-each, save sequence. Per §7, a per-session processing error is
// logged and the driver moves on to the next session; it never escalates
// to the pass's own return value or the process exit code — only a
// failure to create the destination directory, to scan, or to save the
// final state (a systemic fault, not a single session's problem) is
// returned to the caller.
func (d *Driver) RunPass(now time.Time) error {
	if err := os.MkdirAll(d.DestDir, 0o755); err != nil {
		return fmt.Errorf("poll: create dest dir: %w", err)
	}

	doc := d.Store.Load()

	ids, err := Sessions(d.KV)
	if err != nil {
		return err
	}

	failures := 0
	for _, id := range ids {
		if err := d.Engine.ProcessSession(doc, id, now); err != nil {
			failures++
			if d.Logger != nil {
				d.Logger.Error("poll: session pass failed",
					zap.String("session", id),
					zap.Error(err),
				)
			}
			continue
		}
	}

	if err := d.Store.Save(doc); err != nil {
		return fmt.Errorf("poll: save state: %w", err)
	}

	if d.Logger != nil {
		d.Logger.Info("poll: pass complete",
			zap.Int("sessions_scanned", len(ids)),
			zap.Int("sessions_failed", failures),
		)
	}

	return nil
}

// RunForever runs passes in a loop, sleeping interval between them,
// until stop is closed.
func (d *Driver) RunForever(interval time.Duration, stop <-chan struct{}) {
	for {
		if err := d.RunPass(time.Now()); err != nil && d.Logger != nil {
			d.Logger.Error("poll: pass error", zap.Error(err))
		}
		select {
		case <-stop:
			return
		case <-time.After(interval):
		}
	}
}
