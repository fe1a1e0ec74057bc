package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/loopwork-ai/toolrpc/internal/config"
	"github.com/loopwork-ai/toolrpc/openapi"
	"github.com/loopwork-ai/toolrpc/server"
	"github.com/loopwork-ai/toolrpc/tool"
)

var rootCmd = &cobra.Command{
	Use:   "toolrpc",
	Short: "A JSON-RPC 2.0 tool server over stdio",
	Long: `toolrpc serves a registry of schema-described tools over a JSON-RPC 2.0
stdio transport. It reads newline-delimited JSON-RPC requests from stdin and
writes responses to stdout.

The built-in calculator tool is registered by default. With --openapi, each
operation of the given OpenAPI specification is also exposed as a tool whose
invocation performs the corresponding HTTP request.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		if !verbose {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}

		g.Go(func() error {
			registry := tool.NewRegistry()

			if !cfg.Disabled("calculator") {
				if err := registry.Register(Calculator()); err != nil {
					return fmt.Errorf("error registering calculator: %w", err)
				}
			}

			if openapiSpec != "" {
				client := newHTTPClient(logger)
				tools, err := loadOpenAPITools(client)
				if err != nil {
					return err
				}
				for _, t := range tools {
					if cfg.Disabled(t.Name) {
						continue
					}
					if err := registry.Register(t); err != nil {
						return fmt.Errorf("error registering tool %q: %w", t.Name, err)
					}
				}
			}

			opts := []server.Option{
				server.WithLogger(logger),
				server.WithServerInfo(cfg.Name, cfg.Version),
			}
			if cfg.Instructions != "" {
				opts = append(opts, server.WithInstructions(cfg.Instructions))
			}
			if cfg.RateLimit != nil {
				opts = append(opts, server.WithRateLimit(server.RateLimitConfig{
					GlobalRPS:   cfg.RateLimit.GlobalRPS,
					GlobalBurst: cfg.RateLimit.GlobalBurst,
					MethodRPS:   cfg.RateLimit.MethodRPS,
					MethodBurst: cfg.RateLimit.MethodBurst,
					ToolRPS:     cfg.RateLimit.ToolRPS,
					ToolBurst:   cfg.RateLimit.ToolBurst,
				}))
			}

			srv := server.New(registry, opts...)
			logger.Info("server ready", "name", cfg.Name, "tools", registry.Len())

			transport := server.NewStdioTransport(srv, os.Stdin, os.Stdout, os.Stderr)
			return transport.Run(ctx)
		})

		return g.Wait()
	},
}

// newHTTPClient builds the retrying HTTP client used by OpenAPI-backed
// tools.
func newHTTPClient(logger *slog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = logger

	if rps > 0 {
		retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
			// Ensure we wait at least 1/rps between requests
			minWait := time.Second / time.Duration(rps)
			if min < minWait {
				min = minWait
			}
			return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
		}
	}

	return retryClient.StandardClient()
}

// loadOpenAPITools reads the OpenAPI spec from a file or URL and derives
// tools from its operations.
func loadOpenAPITools(client *http.Client) ([]tool.Tool, error) {
	var specData []byte
	var err error

	base := baseURL
	if strings.HasPrefix(openapiSpec, "http://") || strings.HasPrefix(openapiSpec, "https://") {
		resp, err := client.Get(openapiSpec)
		if err != nil {
			return nil, fmt.Errorf("error downloading spec: %w", err)
		}
		defer resp.Body.Close()

		specData, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("error reading spec from %s: %w", openapiSpec, err)
		}

		if base == "" {
			// Default the API base to the spec's own location
			if idx := strings.LastIndex(openapiSpec, "/"); idx > 0 {
				base = openapiSpec[:idx]
			}
		}
	} else {
		cleanPath := filepath.Clean(openapiSpec)
		specData, err = os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("error reading spec file %s: %w", cleanPath, err)
		}
		if base == "" {
			return nil, fmt.Errorf("--base-url is required when the spec is a local file")
		}
	}

	if len(specData) == 0 {
		return nil, fmt.Errorf("no OpenAPI spec data provided")
	}

	return openapi.Tools(specData, base, client)
}

var (
	configPath  string
	openapiSpec string
	baseURL     string
	verbose     bool
	retries     int
	timeout     time.Duration
	rps         int

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&openapiSpec, "openapi", "", "OpenAPI spec path or URL to expose as tools")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL for OpenAPI-backed tools (defaults to the spec's location)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.Flags().IntVar(&retries, "retries", 3, "Maximum number of retries for failed requests")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "HTTP request timeout")
	rootCmd.Flags().IntVarP(&rps, "rps", "r", 0, "Maximum requests per second for HTTP-backed tools (0 for no limit)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}
