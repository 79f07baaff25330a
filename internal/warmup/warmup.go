package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_text_cleaner/internal/ports"
)

// Config defines configuration for warming up the system.
type Config struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultConfig returns the default warmup configuration.
func DefaultConfig() Config {
	return Config{
		Concurrency:    runtime.NumCPU(),
		Iterations:     1000,
		SampleTextSize: 1000,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations.
type Manager struct {
	logger   ports.Logger
	cleaners []ports.Cleaner
	config   Config
}

// NewManager creates a new warmup manager.
func NewManager(logger ports.Logger, config Config) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterCleaner adds a cleaner to be warmed up.
func (wm *Manager) RegisterCleaner(cleaner ports.Cleaner) {
	wm.cleaners = append(wm.cleaners, cleaner)
}

// WarmUp runs the warmup process for all registered cleaners. It pre-touches
// every pipeline stage with generated dirty text so pools and tables are hot
// before the first real call.
func (wm *Manager) WarmUp(ctx context.Context) {
	if len(wm.cleaners) == 0 {
		return
	}

	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"cleaners", len(wm.cleaners),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	sample := generateDirtySample(wm.config.SampleTextSize)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-warmupCtx.Done():
					return
				default:
				}

				for _, cleaner := range wm.cleaners {
					_ = cleaner.Clean(warmupCtx, sample)
				}
			}
		}()
	}

	wg.Wait()

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// dirtyFragments cover every pipeline stage: smart punctuation, zero-width
// characters, citation placeholders, exotic spaces, controls and CRLF.
var dirtyFragments = []string{
	"“Smart quotes” — and ellipsis… ",
	"zero\u200Bwidth\u00ADmarks\u200E ",
	"a citation (oaicite:3){index=3} here ",
	"non\u00A0breaking\u3000spaces\u2009 ",
	"bullet • list – item ",
	"ctrl\x07chars and  runs\r\n",
}

// generateDirtySample creates warmup text of roughly the requested size.
func generateDirtySample(size int) string {
	if size <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(size)
	for i := 0; sb.Len() < size; i++ {
		sb.WriteString(dirtyFragments[i%len(dirtyFragments)])
	}
	return sb.String()
}
