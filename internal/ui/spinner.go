// Package ui provides terminal UI helpers for the trace CLI.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

// DefaultInterval is the delay between two rendered frames.
const DefaultInterval = 100 * time.Millisecond

// State is the lifecycle position of a Spinner.
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Spinner animates a frame sequence next to a label while the caller runs
// blocking work. A Spinner is single-use: once stopped it cannot be restarted.
type Spinner struct {
	label    string
	frames   []string
	out      io.Writer
	interval time.Duration
	mode     Mode
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	stop  chan struct{}
	done  chan struct{}

	errMu sync.Mutex
	err   error
}

// Option configures a Spinner.
type Option func(*Spinner)

// WithStyle selects a named frame sequence. Unknown names use DefaultStyle.
func WithStyle(name string) Option {
	return func(s *Spinner) { s.frames = StyleByName(name) }
}

// WithOutput sets the destination stream. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Spinner) { s.out = w }
}

// WithInterval sets the frame delay. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Spinner) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMode forces the display mode instead of probing the output stream.
// Unresolved restores probing.
func WithMode(m Mode) Option {
	return func(s *Spinner) { s.mode = m }
}

// WithLogger sets the logger used to report swallowed write failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Spinner) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Spinner with the given label. Call Start to begin animating.
func New(label string, opts ...Option) *Spinner {
	s := &Spinner{
		label:    label,
		frames:   StyleByName(DefaultStyle),
		out:      os.Stdout,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resolves the display mode and begins output. On an interactive
// terminal the frames are animated by a background goroutine; otherwise a
// single "<label>...\n" line is written. Calling Start on a spinner that is
// not idle does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return
	}
	if s.mode == Unresolved {
		s.mode = DetectMode(s.out)
	}

	if s.mode == NonInteractive {
		s.write(s.label + "...\n")
		s.state = Stopped
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.state = Running
	go s.loop(s.stop, s.done)
}

// Stop halts the animation and erases the spinner line. It blocks until the
// background goroutine has exited, so nothing is written after it returns.
// Stop is safe to call from any goroutine and more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return
	}
	close(s.stop)
	<-s.done
	s.state = Stopped

	if s.Err() != nil {
		return
	}
	s.write("\r" + strings.Repeat(" ", s.lineWidth()) + "\r")
}

// State reports the current lifecycle state.
func (s *Spinner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode reports the display mode. It is Unresolved until Start has probed
// the output, unless WithMode forced one.
func (s *Spinner) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Err returns the first write or flush failure, if any.
func (s *Spinner) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Spinner) loop(stop, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for i := 0; ; i = (i + 1) % len(s.frames) {
		select {
		case <-stop:
			return
		default:
		}

		if !s.write(s.render(i)) {
			return
		}

		timer.Reset(s.interval)
		select {
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

// render returns the line drawn for frame i.
func (s *Spinner) render(i int) string {
	return "\r" + s.frames[i%len(s.frames)] + " " + s.label + "..."
}

// lineWidth is the display width of the widest line render can produce.
func (s *Spinner) lineWidth() int {
	widest := 0
	for _, f := range s.frames {
		if w := runewidth.StringWidth(f); w > widest {
			widest = w
		}
	}
	return widest + 1 + runewidth.StringWidth(s.label) + len("...")
}

// write sends p to the output in a single call and flushes it. Failures are
// recorded and reported as false; they never reach the caller's work.
func (s *Spinner) write(p string) bool {
	_, err := io.WriteString(s.out, p)
	if err == nil {
		if f, ok := s.out.(flusher); ok {
			err = f.Flush()
		}
	}
	if err == nil {
		return true
	}

	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
	s.logger.Debug("spinner output failed", "label", s.label, "err", err)
	return false
}
