// Package core owns the scan lifecycle: a single-flight state machine that
// walks, classifies, deduplicates and finalizes an immutable report.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/advisor"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/classify"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/config"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/dedup"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/filesystem"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/hashing"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// StartResult is the outcome of a Start request.
type StartResult int

const (
	Accepted StartResult = iota
	Conflict
	InvalidRoot
)

// ProgressFunc receives throttled progress events. Delivery is decoupled from
// the scan through a bounded buffer: a slow consumer drops events, it never
// stalls the scan.
type ProgressFunc func(models.Progress)

const (
	progressInterval = 100 * time.Millisecond
	progressEvery    = 100 // files
)

// Orchestrator drives scans. Exactly one scan is active at a time; a Start
// while a scan is in flight is rejected with Conflict, never queued.
type Orchestrator struct {
	cfg    *config.Config
	logger *zap.Logger

	mu        sync.Mutex
	phase     models.Phase
	startTime time.Time
	endTime   *time.Time
	lastErr   string
	report    *models.ScanReport
	cancel    context.CancelFunc
	done      chan struct{}

	processed atomic.Int64
	total     atomic.Int64
	lastEmit  atomic.Int64

	progressFn atomic.Pointer[ProgressFunc]
	events     chan models.Progress
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(cfg *config.Config, logger *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		logger: logger,
		phase:  models.PhaseIdle,
		events: make(chan models.Progress, 64),
	}
	go o.dispatchEvents()
	return o
}

// SetProgressCallback sets the progress callback function
func (o *Orchestrator) SetProgressCallback(fn ProgressFunc) {
	o.progressFn.Store(&fn)
}

// Start begins a scan of root. It validates the root before any phase runs:
// a missing or non-directory root records an error and settles back in Idle.
func (o *Orchestrator) Start(root string) StartResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase.Active() {
		o.logger.Warn("Scan already active, rejecting start", zap.String("root", root))
		return Conflict
	}

	abs, err := filepath.Abs(root)
	if err == nil {
		var info os.FileInfo
		info, err = os.Stat(abs)
		if err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory: %s", abs)
		}
	}
	if err != nil {
		// Error is a transient state here: the message is recorded and the
		// machine settles in Idle without touching any prior report.
		o.lastErr = "invalid root: " + err.Error()
		o.phase = models.PhaseIdle
		o.logger.Error("Invalid scan root", zap.String("root", root), zap.Error(err))
		return InvalidRoot
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})
	o.phase = models.PhaseCounting
	o.startTime = time.Now()
	o.endTime = nil
	o.lastErr = ""
	o.processed.Store(0)
	o.total.Store(0)

	o.logger.Info("Starting scan", zap.String("root", abs))
	go o.run(ctx, abs)

	return Accepted
}

// Cancel requests cooperative cancellation of the active scan. The scan
// checks between files, discards all partial state and returns to Idle; any
// previously completed report remains available.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	cancel := o.cancel
	active := o.phase.Active()
	o.mu.Unlock()

	if active && cancel != nil {
		cancel()
	}
}

// Wait blocks until the current scan finishes. Mainly for callers that drive
// a scan synchronously (CLI, tests).
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Status returns a well-formed snapshot at any time, including before the
// first scan.
func (o *Orchestrator) Status() models.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return models.Status{
		Phase:     o.phase,
		Processed: int(o.processed.Load()),
		Total:     int(o.total.Load()),
		StartTime: o.startTime,
		EndTime:   o.endTime,
		Error:     o.lastErr,
	}
}

// Report returns the most recently completed report. ok is false until a
// scan has completed; a scan in progress never exposes partial state.
func (o *Orchestrator) Report() (*models.ScanReport, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.report == nil {
		return nil, false
	}
	return o.report, true
}

// run executes one scan and settles the state machine.
func (o *Orchestrator) run(ctx context.Context, root string) {
	defer close(o.done)

	report, err := o.scan(ctx, root)

	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case errors.Is(err, context.Canceled):
		// Cancelled is transient: partial state is discarded and the
		// machine returns to Idle with no error recorded.
		o.phase = models.PhaseIdle
		o.logger.Info("Scan cancelled", zap.String("root", root))
	case err != nil:
		o.lastErr = err.Error()
		o.phase = models.PhaseIdle
		o.logger.Error("Scan failed", zap.String("root", root), zap.Error(err))
	default:
		now := time.Now()
		report.EndTime = now
		o.report = report // atomic replacement of the prior report
		o.endTime = &now
		o.phase = models.PhaseCompleted
		o.logger.Info("Scan completed",
			zap.String("root", root),
			zap.Int("files", report.TotalFiles),
			zap.Int("duplicate_groups", len(report.DuplicateGroups)),
			zap.Int("suggestions", len(report.Suggestions)),
			zap.Duration("duration", report.Duration()))
	}
}

// scan runs the phases in order. Phase boundaries are strict barriers: each
// phase consumes the complete output of the previous one.
func (o *Orchestrator) scan(ctx context.Context, root string) (*models.ScanReport, error) {
	walker := filesystem.NewWalker(o.cfg.Exclude, o.cfg.Workers, o.logger)

	// Counting: metadata-only pass for the progress denominator.
	total, err := walker.Count(ctx, root)
	if err != nil {
		return nil, err
	}
	o.total.Store(int64(total))
	o.logger.Info("Counted files", zap.Int("total", total))

	// Classifying: bounded header reads, name fallback, mismatch flags.
	o.setPhase(models.PhaseClassifying)
	inv := newInventory()
	delay := time.Duration(o.cfg.ScanDelay) * time.Millisecond

	err = walker.Walk(ctx, root, func(e filesystem.Entry) error {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		header, readErr := filesystem.ReadHeader(e.Path, o.cfg.HeaderPrefix)
		if readErr != nil {
			inv.skip(models.SkippedEntry{Path: e.Path, Reason: readErr.Error()})
		} else {
			res := classify.Classify(e.Path, header)
			inv.add(&models.FileRecord{
				Path:              filepath.Clean(e.Path),
				Size:              e.Size,
				ModTime:           e.ModTime,
				Kind:              res.Kind,
				DeclaredKind:      res.DeclaredKind,
				SignatureFormat:   res.SignatureFormat,
				SignatureResolved: res.SignatureResolved,
				Mismatch:          res.Mismatch,
			})
		}

		o.emitProgress(models.PhaseClassifying, int(o.processed.Add(1)), total)
		return nil
	}, inv.skip)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := inv.records()

	// Deduplicating: size buckets, sampled filter, full-content confirmation.
	o.setPhase(models.PhaseDeduplicating)
	engine := hashing.NewEngine(o.cfg.SampleWindowBytes(), o.cfg.HashChunkBytes())
	resolver := dedup.NewResolver(engine, o.cfg.Workers, o.logger)
	dupResult, err := resolver.Resolve(ctx, records)
	if err != nil {
		return nil, err
	}

	// Finalizing: erasability rules, aggregate statistics, report assembly.
	o.setPhase(models.PhaseFinalizing)
	suggestions := advisor.NewAdvisor(o.logger).Suggest(records, dupResult.Groups)
	skipped := append(inv.skipped(), dupResult.Skipped...)

	return assembleReport(root, o.startTime, records, dupResult.Groups, suggestions, skipped), nil
}

func (o *Orchestrator) setPhase(phase models.Phase) {
	o.mu.Lock()
	o.phase = phase
	o.mu.Unlock()
}

// emitProgress publishes a throttled progress event: at most one per interval
// plus every Nth file, so consumers see bounded-frequency updates rather than
// a per-file stream.
func (o *Orchestrator) emitProgress(phase models.Phase, processed, total int) {
	now := time.Now().UnixNano()
	last := o.lastEmit.Load()
	if processed%progressEvery != 0 && processed != total && now-last < int64(progressInterval) {
		return
	}
	if !o.lastEmit.CompareAndSwap(last, now) {
		return // another worker just emitted
	}

	select {
	case o.events <- models.Progress{Phase: phase, Processed: processed, Total: total}:
	default:
		// Consumer is behind; drop rather than stall the scan.
	}
}

func (o *Orchestrator) dispatchEvents() {
	for p := range o.events {
		if fn := o.progressFn.Load(); fn != nil && *fn != nil {
			(*fn)(p)
		}
	}
}
