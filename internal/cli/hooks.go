package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kneefig/pkg/observability"
)

// logHooks logs pipeline and cache events at debug level.
type logHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, samples int, d time.Duration, err error) {
	h.logger.Debug("Trial load", "path", path, "samples", samples, "duration", d.Round(time.Microsecond), "err", err)
}

func (h *logHooks) OnFigureComplete(_ context.Context, figure, format string, size int, d time.Duration, err error) {
	h.logger.Debug("Figure rendered", "figure", figure, "format", format, "bytes", size,
		"duration", d.Round(time.Microsecond), "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("Cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("Cache miss", "type", keyType)
}
