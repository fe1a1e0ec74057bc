package server

import "log/slog"

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger used for request tracing and recovered
// panics. Without it, logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerInfo sets the name and version reported by initialize
func WithServerInfo(name, version string) Option {
	return func(s *Server) {
		s.info = Implementation{Name: name, Version: version}
	}
}

// WithInstructions sets the usage instructions reported by initialize
func WithInstructions(instructions string) Option {
	return func(s *Server) {
		s.instructions = instructions
	}
}

// WithRateLimit applies rate limiting to dispatch. Requests wait for
// capacity and fail with a server error if the wait is cancelled.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(s *Server) {
		s.limiter = NewRateLimiter(cfg)
	}
}
