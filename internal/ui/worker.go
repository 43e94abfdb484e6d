package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/bigmd/internal/logging"
	"github.com/yaklabco/bigmd/pkg/document"
	"github.com/yaklabco/bigmd/pkg/markdown"
)

// DocumentMsg delivers a freshly parsed document to the interactive
// loop. Generations increase monotonically; the receiver discards any
// message older than what it already shows.
type DocumentMsg struct {
	Generation uint64
	Doc        *document.Document
	Err        error
}

// ReadSource produces the current document bytes. For a file path it
// rereads the file; for piped input it replays the captured bytes.
type ReadSource func() ([]byte, error)

// FileSource rereads path on every load.
func FileSource(path string) ReadSource {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		return data, nil
	}
}

// BytesSource replays fixed bytes, for stdin input.
func BytesSource(data []byte) ReadSource {
	return func() ([]byte, error) { return data, nil }
}

// Worker parses documents off the interactive loop. Reload requests
// coalesce: a burst of triggers while a parse is in flight produces at
// most one more parse, carrying a newer generation.
type Worker struct {
	read   ReadSource
	parser *markdown.Parser
	send   func(tea.Msg)
	logger *log.Logger

	requests chan struct{}
	gen      atomic.Uint64
}

// NewWorker builds a worker delivering documents through send
// (typically Program.Send).
func NewWorker(read ReadSource, send func(tea.Msg), logger *log.Logger) *Worker {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Worker{
		read:     read,
		parser:   markdown.New(),
		send:     send,
		logger:   logger,
		requests: make(chan struct{}, 1),
	}
}

// Start runs the parse loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.requests:
				w.load(ctx)
			}
		}
	}()
}

// Reload schedules a parse. Never blocks; a pending request absorbs
// further triggers.
func (w *Worker) Reload() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

func (w *Worker) load(ctx context.Context) {
	gen := w.gen.Add(1)
	logger := logging.FromContext(ctx).With(logging.FieldGeneration, gen)

	data, err := w.read()
	if err != nil {
		logger.Error("document load failed", logging.FieldError, err)
		w.send(DocumentMsg{Generation: gen, Err: err})
		return
	}

	blocks := w.parser.Parse(data)
	doc := document.New(blocks, gen)
	logger.Debug("document parsed", logging.FieldBlocks, len(blocks))
	w.send(DocumentMsg{Generation: gen, Doc: doc})
}

// Watch reloads when the document file changes. The parent directory
// is watched so editors that replace the file (write to temp, rename
// over) keep triggering. Bursts inside the debounce window coalesce
// into one reload.
func (w *Worker) Watch(ctx context.Context, path string, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("resolve watch path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				w.logger.Debug("file event", logging.FieldPath, abs, "op", event.Op.String())
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(debounce)
				}
			case <-fire:
				timer = nil
				fire = nil
				w.Reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", logging.FieldError, err)
			}
		}
	}()
	return nil
}
