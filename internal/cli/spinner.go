package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// spinnerFrames is the braille animation shown while a solve runs.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// showElapsedAfter delays the elapsed-time suffix so short solves stay quiet.
const showElapsedAfter = time.Second

// spinner animates a status line on stderr until stopped or until its
// parent context is cancelled. Long solves get an elapsed-time suffix.
type spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started atomic.Bool

	mu    sync.Mutex
	width int // visible width of the last frame
}

// newSpinnerWithContext creates a spinner on stderr that stops when ctx is
// cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		message: message,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *spinner) Start() {
	if s.started.Swap(true) {
		return
	}
	start := time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)], time.Since(start))
			}
		}
	}()
}

func (s *spinner) draw(frame string, elapsed time.Duration) {
	line := frame + " " + s.message
	styled := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	if elapsed >= showElapsedAfter {
		suffix := fmt.Sprintf(" %.1fs", elapsed.Seconds())
		line += suffix
		styled += StyleDim.Render(suffix)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s", styled)
	s.width = max(s.width, len([]rune(line)))
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop stops the animation and clears the line. It is safe to call more
// than once, including after Start was never called.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

// StopWithError stops the spinner and prints an error line.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context was cancelled.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
