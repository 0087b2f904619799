package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a transcript must stay unchanged before it is
// handed off.
const DefaultSettle = 500 * time.Millisecond

// Handler processes one finished transcription job
type Handler func(ctx context.Context, jobName string) error

// Watcher monitors {root}/{bucket}/transcripts for new transcript documents
type Watcher struct {
	dir           string
	handler       Handler
	logger        *zap.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over the transcripts directory of bucket. The
// directory is created when missing.
func New(root, bucket string, handler Handler, logger *zap.Logger, maxConcurrent int) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Join(root, bucket, "transcripts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcripts dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		dir:           dir,
		handler:       handler,
		logger:        logger,
		watcher:       fw,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        DefaultSettle,
		pending:       make(map[string]*time.Timer),
	}, nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

// Start blocks until ctx is done, dispatching each settled transcript to the
// handler with at most maxConcurrent in flight.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("👀 Transcript watcher started",
		zap.String("dir", w.dir),
		zap.Int("max_concurrent", w.maxConcurrent),
	)

	ready := make(chan string)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			w.logger.Info("Waiting for in-flight aggregations to complete...")
			w.wg.Wait()
			w.logger.Info("Transcript watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if jobName, ok := jobNameOf(event.Name); ok {
				w.schedule(ctx, ready, jobName)
			}

		case jobName := <-ready:
			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(jobName string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					w.logger.Info("📄 New transcript detected", zap.String("job_name", jobName))
					if err := w.handler(ctx, jobName); err != nil {
						w.logger.Error("❌ Failed to aggregate transcript",
							zap.String("job_name", jobName),
							zap.Error(err),
						)
					}
				}(jobName)
			case <-ctx.Done():
				continue
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

// schedule (re)arms the settle timer of jobName. Repeated writes to the same
// file collapse into one dispatch.
func (w *Watcher) schedule(ctx context.Context, ready chan<- string, jobName string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[jobName]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[jobName] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, jobName)
		w.mu.Unlock()

		select {
		case ready <- jobName:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
}

// Stop closes the file watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// jobNameOf maps transcripts/{jobName}.json to jobName, ignoring hidden and
// temporary files.
func jobNameOf(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".json") {
		return "", false
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name, name != ""
}
