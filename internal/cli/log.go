package cli

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kneefig/pkg/pipeline"
)

// newLogger returns a logger writing to w with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one render run and logs its summary.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs e.g. "Rendered 3 figures (412ms) files=3 cached=1".
func (p *progress) done(r *pipeline.Result) {
	p.logger.Info(
		"Rendered "+plural(r.Stats.Figures, "figure")+" ("+time.Since(p.start).Round(time.Millisecond).String()+")",
		"files", len(r.Files),
		"cached", r.CacheInfo.Hits,
		"samples", r.Stats.Samples,
	)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the commands below the root.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
