package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	textcleaner "github.com/baditaflorin/go_text_cleaner"
	"github.com/baditaflorin/go_text_cleaner/internal/core/domain"
	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"
)

// cleanerKey selects a preconfigured cleaner by its toggle combination.
type cleanerKey struct {
	keepEmoji      bool
	collapseSpaces bool
}

var (
	// One cleaner per toggle combination, built once at startup.
	cleaners map[cleanerKey]*textcleaner.TextCleaner

	// Defaults applied when a request leaves a toggle unset.
	defaultKey cleanerKey

	// Logger instance
	logger l.Logger
)

// Request represents a cleaning request. Text is kept raw so a non-string
// value can be rejected with the invalid-argument contract instead of a
// decode error.
type Request struct {
	Text           json.RawMessage `json:"text"`
	KeepEmoji      *bool           `json:"keepEmoji,omitempty"`
	CollapseSpaces *bool           `json:"collapseSpaces,omitempty"`
}

// Response represents a cleaning response.
type Response struct {
	Cleaned string         `json:"cleaned"`
	Changes domain.Changes `json:"changes"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	configPath := flag.String("config", "", "YAML config file path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	cfg, err := Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}

	logger, err = createLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting text cleaner HTTP server",
		"port", cfg.Server.Port,
		"read_timeout", cfg.Server.ReadTimeout(),
		"write_timeout", cfg.Server.WriteTimeout(),
		"max_request_size", cfg.Server.MaxRequestSize,
		"concurrency", cfg.Server.Concurrency,
	)

	if err := initCleaners(cfg.Cleaner); err != nil {
		logger.Error("Failed to initialize cleaners", "error", err)
		os.Exit(1)
	}

	server := &fasthttp.Server{
		Handler:               requestHandler,
		ReadTimeout:           cfg.Server.ReadTimeout(),
		WriteTimeout:          cfg.Server.WriteTimeout(),
		MaxRequestBodySize:    cfg.Server.MaxRequestSize,
		Concurrency:           cfg.Server.Concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Server listening", "address", fmt.Sprintf(":%d", cfg.Server.Port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// initCleaners builds one cleaner per toggle combination so per-request
// options never allocate a pipeline. Only the default combination is warmed.
func initCleaners(cfg CleanerConfig) error {
	defaultKey = cleanerKey{keepEmoji: true, collapseSpaces: true}
	if cfg.KeepEmoji != nil {
		defaultKey.keepEmoji = *cfg.KeepEmoji
	}
	if cfg.CollapseSpaces != nil {
		defaultKey.collapseSpaces = *cfg.CollapseSpaces
	}

	cleaners = make(map[cleanerKey]*textcleaner.TextCleaner, 4)
	for _, keepEmoji := range []bool{true, false} {
		for _, collapse := range []bool{true, false} {
			key := cleanerKey{keepEmoji: keepEmoji, collapseSpaces: collapse}
			opts := []textcleaner.Option{
				textcleaner.WithKeepEmoji(keepEmoji),
				textcleaner.WithCollapseSpaces(collapse),
				textcleaner.WithLogger(logger),
			}
			if cfg.WarmUp && key == defaultKey {
				opts = append(opts, textcleaner.WithWarmUp(true))
			}

			tc, err := textcleaner.New(opts...)
			if err != nil {
				return err
			}
			cleaners[key] = tc
		}
	}

	logger.Info("Cleaners initialized",
		"warm_up", cfg.WarmUp,
		"default_keep_emoji", defaultKey.keepEmoji,
		"default_collapse_spaces", defaultKey.collapseSpaces,
	)
	return nil
}

// requestHandler is the main fasthttp request handler.
func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Server", "TextCleanerServer")

	switch string(ctx.Path()) {
	case "/":
		handleIndex(ctx)
	case "/health":
		handleHealthCheck(ctx)
	case "/clean":
		handleClean(ctx)
	default:
		ctx.Response.Header.Set("Content-Type", "application/json")
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	duration := time.Since(startTime)
	logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", duration,
	)
}

// handleIndex serves the demo page.
func handleIndex(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Content-Type", "text/html; charset=utf-8")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString(indexHTML)
}

// handleHealthCheck responds to health check requests.
func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	response := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	writeJSONResponse(ctx, response)
}

// handleClean handles cleaning requests.
func handleClean(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Content-Type", "application/json")

	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req Request
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if len(req.Text) == 0 {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Field text is required")
		return
	}

	key := defaultKey
	if req.KeepEmoji != nil {
		key.keepEmoji = *req.KeepEmoji
	}
	if req.CollapseSpaces != nil {
		key.collapseSpaces = *req.CollapseSpaces
	}
	cleaner := cleaners[key]

	// Decode the raw text value untyped so a non-string fails with the
	// cleaner's invalid-argument contract.
	var value interface{}
	if err := json.Unmarshal(req.Text, &value); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := cleaner.CleanValue(c, value)
	if err != nil {
		if errors.Is(err, domain.ErrNotText) {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			writeJSONError(ctx, "Field text must be a string")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, Response{
		Cleaned: result.Cleaned,
		Changes: result.Changes,
	})
}

// writeJSONResponse writes a JSON response to the context.
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context.
func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	errResponse := ErrorResponse{
		Error: message,
	}

	response, err := json.Marshal(errResponse)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

// createLogger creates and configures a logger.
func createLogger(cfg LoggingConfig) (l.Logger, error) {
	factory := l.NewStandardFactory()

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  cfg.JSON,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
