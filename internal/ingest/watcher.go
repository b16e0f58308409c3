// Package ingest watches a drop folder for extracted fee-record pairs
// and queues an analysis when both sides of a loan arrive.
//
// File naming convention: <loan>.le.json and <loan>.cd.json, with
// optional <loan>.le.geom.json / <loan>.cd.geom.json sidecars.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fintrid/tridcheck/internal/async"
	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/geometry"
	"github.com/fintrid/tridcheck/internal/pipeline"
)

const (
	leSuffix     = ".le.json"
	cdSuffix     = ".cd.json"
	leGeomSuffix = ".le.geom.json"
	cdGeomSuffix = ".cd.geom.json"
)

// Watcher pairs dropped files by loan stem and enqueues completed pairs.
type Watcher struct {
	cfg   common.IngestConfig
	queue *async.AnalysisQueue
	log   *slog.Logger

	mu   sync.Mutex
	seen map[string]map[string]bool // loan stem -> sides present
}

func NewWatcher(cfg common.IngestConfig, queue *async.AnalysisQueue, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:   cfg,
		queue: queue,
		log:   logger,
		seen:  make(map[string]map[string]bool),
	}
}

// Start watches the drop folder recursively until ctx is cancelled.
// Existing files are scanned first, so pairs dropped while the daemon
// was down still get picked up.
func (w *Watcher) Start(ctx context.Context) error {
	if w.cfg.WatchDir == "" {
		return errors.New("no watch directory configured")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Error("failed to create fsnotify watcher", "error", err)
		return err
	}
	defer func() {
		if err := fw.Close(); err != nil {
			w.log.Warn("watcher close error", "error", err)
		}
	}()

	err = filepath.WalkDir(w.cfg.WatchDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		w.observe(ctx, path)
		return nil
	})
	if err != nil {
		w.log.Error("failed to scan watch directory", "dir", w.cfg.WatchDir, "error", err)
		return err
	}
	w.log.Info("ingest.watcher.started", "dir", w.cfg.WatchDir, "debounce", w.cfg.Debounce)

	var timer *time.Timer
	pending := make(map[string]struct{})
	var pendingMu sync.Mutex

	flush := func() {
		pendingMu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
			delete(pending, p)
		}
		pendingMu.Unlock()
		for _, p := range paths {
			w.observe(ctx, p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("ingest.watcher.stopped")
			return nil
		case e, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if e.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(e.Name); statErr == nil && info.IsDir() {
					if addErr := fw.Add(e.Name); addErr != nil {
						w.log.Warn("failed to watch new directory", "path", e.Name, "error", addErr)
					}
					continue
				}
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			pendingMu.Lock()
			pending[e.Name] = struct{}{}
			pendingMu.Unlock()
			if w.cfg.Debounce > 0 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.cfg.Debounce, flush)
			} else {
				flush()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

// observe records one dropped file and enqueues the pair when both
// documents of a loan are present.
func (w *Watcher) observe(ctx context.Context, path string) {
	name := filepath.Base(path)
	var stem, side string
	switch {
	case strings.HasSuffix(name, leSuffix) && !strings.HasSuffix(name, leGeomSuffix):
		stem, side = strings.TrimSuffix(name, leSuffix), "le"
	case strings.HasSuffix(name, cdSuffix) && !strings.HasSuffix(name, cdGeomSuffix):
		stem, side = strings.TrimSuffix(name, cdSuffix), "cd"
	default:
		return
	}

	dir := filepath.Dir(path)

	w.mu.Lock()
	sides := w.seen[stem]
	if sides == nil {
		sides = make(map[string]bool)
		w.seen[stem] = sides
	}
	sides[side] = true
	ready := sides["le"] && sides["cd"]
	if ready {
		delete(w.seen, stem)
	}
	w.mu.Unlock()

	w.log.Info("ingest.observed", "stem", stem, "side", side, "ready", ready)
	if !ready {
		return
	}
	w.enqueuePair(ctx, dir, stem)
}

func (w *Watcher) enqueuePair(ctx context.Context, dir, stem string) {
	leData, err := os.ReadFile(filepath.Join(dir, stem+leSuffix))
	if err != nil {
		w.log.Error("ingest.read_failed", "stem", stem, "side", "le", "error", err)
		return
	}
	cdData, err := os.ReadFile(filepath.Join(dir, stem+cdSuffix))
	if err != nil {
		w.log.Error("ingest.read_failed", "stem", stem, "side", "cd", "error", err)
		return
	}

	in := pipeline.Input{LEData: leData, CDData: cdData}
	if leGeom := filepath.Join(dir, stem+leGeomSuffix); fileExists(leGeom) {
		in.LEGeometry = geometry.SidecarSource{Path: leGeom}
	}
	if cdGeom := filepath.Join(dir, stem+cdGeomSuffix); fileExists(cdGeom) {
		in.CDGeometry = geometry.SidecarSource{Path: cdGeom}
	}

	if err := w.queue.Enqueue(ctx, async.Job{Source: "ingest:" + stem, Input: in}); err != nil {
		w.log.Error("ingest.enqueue_failed", "stem", stem, "error", err)
		return
	}
	w.log.Info("ingest.pair_queued", "stem", stem)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
