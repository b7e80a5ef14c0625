package llm

import (
	"context"
	"sync"
	"time"

	"plannerd/internal/logging"
)

// TraceStats summarizes calls made through a TracingGenerator.
type TraceStats struct {
	Calls        int
	Failures     int
	LastDuration time.Duration
	LastError    string
}

// TracingGenerator wraps any Generator and logs every call with its duration.
type TracingGenerator struct {
	underlying Generator
	model      string

	mu    sync.Mutex
	stats TraceStats
}

// NewTracingGenerator creates a tracing wrapper. model is only used in logs.
func NewTracingGenerator(underlying Generator, model string) *TracingGenerator {
	return &TracingGenerator{underlying: underlying, model: model}
}

// Generate implements Generator.
func (t *TracingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	logging.API("LLM call started: model=%s prompt_len=%d", t.model, len(prompt))

	response, err := t.underlying.Generate(ctx, prompt)

	duration := time.Since(start)
	t.mu.Lock()
	t.stats.Calls++
	t.stats.LastDuration = duration
	if err != nil {
		t.stats.Failures++
		t.stats.LastError = err.Error()
	} else {
		t.stats.LastError = ""
	}
	t.mu.Unlock()

	if err != nil {
		logging.APIError("LLM call failed: model=%s duration=%v error=%s", t.model, duration, err.Error())
	} else {
		logging.Get(logging.CategoryAPI).StructuredLog("info", "LLM call completed", map[string]interface{}{
			"model":        t.model,
			"duration_ms":  duration.Milliseconds(),
			"response_len": len(response),
		})
	}
	return response, err
}

// Stats returns a snapshot of the collected counters.
func (t *TracingGenerator) Stats() TraceStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
