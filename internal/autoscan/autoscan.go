// Package autoscan runs the update scan on a timer, the long-running mode
// behind `scan --watch`.
package autoscan

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/updater"
)

// Runner drives periodic scans. A scan that is still in flight when the next
// tick fires is not stacked; the tick is skipped.
type Runner struct {
	updater *updater.Updater
	log     *log.Logger
	running atomic.Bool
}

// New creates a runner around an updater.
func New(u *updater.Updater, logger *log.Logger) *Runner {
	return &Runner{updater: u, log: logger}
}

// Run scans immediately and then on every interval tick until the context is
// cancelled. The interval is re-read from settings each cycle so a config
// change takes effect on the next tick.
func (r *Runner) Run(ctx context.Context) error {
	r.scanOnce()

	for {
		timer := time.NewTimer(r.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.scanOnce()
		}
	}
}

func (r *Runner) interval() time.Duration {
	minutes := r.updater.Store().Doc().Settings.AutoScanIntervalMin
	if minutes <= 0 {
		minutes = config.DefaultAutoScanIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// scanOnce runs a single scan cycle, auto-updating afterwards when the
// setting asks for it.
func (r *Runner) scanOnce() {
	if !r.running.CompareAndSwap(false, true) {
		r.log.Warn("Scan still in progress, skipping cycle")
		return
	}
	defer r.running.Store(false)

	addons := r.updater.ScanForUpdates(nil)

	stale := 0
	for _, a := range addons {
		if a.NeedsUpdate {
			stale++
		}
	}
	r.log.Info("Scan cycle complete", "addons", len(addons), "updates", stale)

	if stale == 0 || !r.updater.Store().Doc().Settings.AutoUpdateAfterScan {
		return
	}

	updated, failed := r.updater.UpdateAll(addons, nil)
	r.log.Info("Auto-update complete", "updated", updated, "failed", len(failed))
}
