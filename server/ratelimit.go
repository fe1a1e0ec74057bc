package server

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines dispatch rate limits. A zero RPS disables the
// corresponding limiter.
type RateLimitConfig struct {
	// GlobalRPS limits requests per second across all methods
	GlobalRPS float64
	// GlobalBurst is the burst size for the global limit
	GlobalBurst int
	// MethodRPS limits requests per second for specific methods
	MethodRPS map[string]float64
	// MethodBurst holds burst sizes for MethodRPS entries
	MethodBurst map[string]int
	// ToolRPS limits invocations per second for specific tools. The "*"
	// entry applies to tools with no entry of their own.
	ToolRPS map[string]float64
	// ToolBurst holds burst sizes for ToolRPS entries
	ToolBurst map[string]int
}

// RateLimiter applies RateLimitConfig to dispatch. Its limiter maps are
// built once at construction and read-only afterwards, matching the
// registry's immutability.
type RateLimiter struct {
	global  *rate.Limiter
	methods map[string]*rate.Limiter
	tools   map[string]*rate.Limiter
}

// NewRateLimiter creates a rate limiter from the given config
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		methods: make(map[string]*rate.Limiter),
		tools:   make(map[string]*rate.Limiter),
	}

	if cfg.GlobalRPS > 0 {
		rl.global = rate.NewLimiter(rate.Limit(cfg.GlobalRPS), burst(cfg.GlobalBurst))
	}
	for method, rps := range cfg.MethodRPS {
		rl.methods[method] = rate.NewLimiter(rate.Limit(rps), burst(cfg.MethodBurst[method]))
	}
	for name, rps := range cfg.ToolRPS {
		rl.tools[name] = rate.NewLimiter(rate.Limit(rps), burst(cfg.ToolBurst[name]))
	}

	return rl
}

func burst(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Allow waits for capacity to dispatch a request for the given method. It
// returns an error only when the context is cancelled while waiting.
func (rl *RateLimiter) Allow(ctx context.Context, method string) error {
	if rl.global != nil {
		if err := rl.global.Wait(ctx); err != nil {
			return err
		}
	}
	if limiter, ok := rl.methods[method]; ok {
		return limiter.Wait(ctx)
	}
	return nil
}

// AllowTool waits for capacity to invoke the named tool, falling back to
// the "*" entry when the tool has no limit of its own.
func (rl *RateLimiter) AllowTool(ctx context.Context, name string) error {
	limiter, ok := rl.tools[name]
	if !ok {
		limiter, ok = rl.tools["*"]
	}
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
