package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames are the braille animation frames.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner is a stderr progress indicator for long-running commands. It
// animates only when stderr is a terminal and stays silent otherwise, so
// piped output is not littered with carriage returns. The spinner follows
// its parent context; on Ctrl-C the line is cleared before the command
// aborts.
type Spinner struct {
	message  string
	parent   context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  chan struct{}
	started  bool
	stopOnce sync.Once
	mu       sync.Mutex
}

// newSpinner creates a spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	loopCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		parent:  ctx,
		ctx:     loopCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		if !stderrIsTerminal() {
			<-s.ctx.Done()
			return
		}
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		begin := time.Now()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.renderFrame(spinnerFrames[i%len(spinnerFrames)], time.Since(begin))
			}
		}
	}()
}

// renderFrame paints one frame, appending the elapsed seconds once the wait
// is long enough to feel slow.
func (s *Spinner) renderFrame(frame string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	if elapsed >= 2*time.Second {
		line += StyleDim.Render(fmt.Sprintf(" (%ds)", int(elapsed.Seconds())))
	}
	fmt.Fprintf(os.Stderr, "\r%s", line)
}

// Stop halts the animation and clears the line. Safe to call repeatedly,
// and before Start.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	if !stderrIsTerminal() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+10))
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended the spinner, as
// opposed to an explicit Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
