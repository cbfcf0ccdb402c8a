package engine

import (
	"time"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.RenderMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRenderDuration(string, time.Duration) {}

func (noopMetrics) IncrementRenderError(string) {}

func (noopMetrics) IncrementCacheHit(string) {}

func (noopMetrics) IncrementFallback(string, interfaces.ErrorKind) {}
