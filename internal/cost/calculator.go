package cost

import (
	"sync"
	"time"
)

// DefaultModel is the pricing fallback for unrecognized model names.
const DefaultModel = "claude-sonnet-4-5-20250929"

// ModelRate holds per-model token pricing (USD per 1K tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// DefaultRates returns the default pricing table.
func DefaultRates() map[string]ModelRate {
	return map[string]ModelRate{
		"claude-haiku-4-5-20251001":  {Input: 0.0008, Output: 0.004},
		"claude-sonnet-4-5-20250929": {Input: 0.0025, Output: 0.010},
		"claude-opus-4-1-20250805":   {Input: 0.015, Output: 0.075},
	}
}

// Calculator computes dollar costs for model token usage.
type Calculator struct {
	rates map[string]ModelRate
}

// NewCalculator creates a Calculator with the given rates, or the defaults
// when rates is nil.
func NewCalculator(rates map[string]ModelRate) *Calculator {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Calculator{rates: rates}
}

// Completion computes the cost of one completion. Unrecognized model names
// fall back to the default model's rates rather than failing.
func (c *Calculator) Completion(model string, promptTokens, completionTokens int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		rate = c.rates[DefaultModel]
	}
	return (float64(promptTokens)/1000)*rate.Input + (float64(completionTokens)/1000)*rate.Output
}

// ResortCost is the per-resort line item in a run report.
type ResortCost struct {
	Slug             string
	PromptTokens     int64
	CompletionTokens int64
	CostUSD          float64
}

// Report accumulates token usage and cost for exactly one pipeline run.
// It is owned by the batch driver and discarded after the summary is
// emitted.
type Report struct {
	mu      sync.Mutex
	calc    *Calculator
	started time.Time
	resorts []ResortCost
}

// NewReport starts a fresh run-level report.
func NewReport(calc *Calculator) *Report {
	return &Report{calc: calc, started: time.Now().UTC()}
}

// Record adds one resort's usage and returns the cost of that call.
func (r *Report) Record(slug, model string, promptTokens, completionTokens int64) float64 {
	cost := r.calc.Completion(model, promptTokens, completionTokens)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resorts = append(r.resorts, ResortCost{
		Slug:             slug,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		CostUSD:          cost,
	})
	return cost
}

// Totals returns the aggregate token counts and cost for the run.
func (r *Report) Totals() (prompt, completion int64, costUSD float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rc := range r.resorts {
		prompt += rc.PromptTokens
		completion += rc.CompletionTokens
		costUSD += rc.CostUSD
	}
	return prompt, completion, costUSD
}

// Resorts returns a copy of the per-resort line items.
func (r *Report) Resorts() []ResortCost {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ResortCost, len(r.resorts))
	copy(out, r.resorts)
	return out
}

// Elapsed returns time since the report was started.
func (r *Report) Elapsed() time.Duration {
	return time.Since(r.started)
}
