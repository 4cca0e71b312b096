package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/kneefig/pkg/figure"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates one line on w while a figure renders. It stops on its
// own when ctx is cancelled.
type Spinner struct {
	w       io.Writer
	message string
	start   time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// newFigureSpinner creates a spinner for rendering kind k in formats.
func newFigureSpinner(ctx context.Context, w io.Writer, k figure.Kind, formats []string) *Spinner {
	return newSpinnerWithContext(ctx, w, figureMessage(k, formats))
}

// figureMessage reads e.g. "Rendering knee-torque (pdf, svg)".
func figureMessage(k figure.Kind, formats []string) string {
	if len(formats) == 0 {
		formats = []string{figure.DefaultFormat}
	}
	return fmt.Sprintf("Rendering %s (%s)", k, strings.Join(formats, ", "))
}

func newSpinnerWithContext(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation, clears the line and returns the time since
// Start. It is safe to call more than once.
func (s *Spinner) Stop() time.Duration {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
		s.mu.Unlock()
	})
	return time.Since(s.start).Round(time.Millisecond)
}

// StopWithSuccess stops the spinner and prints message with the elapsed
// time.
func (s *Spinner) StopWithSuccess(message string) {
	d := s.Stop()
	printSuccess("%s %s", message, StyleDim.Render(d.String()))
}

// StopWithError stops the spinner and prints message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
