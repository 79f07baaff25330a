// Package textcleaner normalizes text produced by large-language-model
// tools. It strips invisible and zero-width characters, folds exotic
// whitespace to plain spaces, straightens smart punctuation, removes inline
// citation placeholders, normalizes line endings and optionally collapses
// redundant spaces, returning the cleaned text together with an itemized
// count of every change applied.
//
// This version uses the functional options pattern to allow configuration of
// the two cleaning toggles, logging and warm-up behavior.
package textcleaner

import (
	"context"
	"fmt"

	"github.com/baditaflorin/go_text_cleaner/internal/adapters/logger"
	"github.com/baditaflorin/go_text_cleaner/internal/core/clean"
	"github.com/baditaflorin/go_text_cleaner/internal/core/domain"
	"github.com/baditaflorin/go_text_cleaner/internal/ports"
	"github.com/baditaflorin/go_text_cleaner/internal/warmup"
	"github.com/baditaflorin/l"
)

// TextCleaner provides methods to clean LLM-produced text.
type TextCleaner struct {
	cleaner ports.Cleaner
	logger  ports.Logger
	warmed  bool
}

// Option defines a functional option for configuring TextCleaner.
type Option func(*config)

type config struct {
	KeepEmoji      bool
	CollapseSpaces bool
	Logger         ports.Logger
	WarmUp         bool
	WarmUpConfig   warmup.Config
}

// WithKeepEmoji controls whether zero width joiners and variation selectors
// are preserved. They are preserved by default; stripping them fractures
// multi-code-point emoji sequences.
func WithKeepEmoji(keep bool) Option {
	return func(cfg *config) {
		cfg.KeepEmoji = keep
	}
}

// WithCollapseSpaces controls whether runs of ASCII spaces are collapsed to
// one and the result trimmed. On by default.
func WithCollapseSpaces(collapse bool) Option {
	return func(cfg *config) {
		cfg.CollapseSpaces = collapse
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *config) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(wc warmup.Config) Option {
	return func(cfg *config) {
		cfg.WarmUpConfig = wc
		cfg.WarmUp = true
	}
}

// New creates a new TextCleaner instance.
func New(opts ...Option) (*TextCleaner, error) {
	defaultConfig := clean.DefaultConfig()

	cfg := &config{
		KeepEmoji:      defaultConfig.KeepEmoji,
		CollapseSpaces: defaultConfig.CollapseSpaces,
		WarmUp:         false,
		WarmUpConfig:   warmup.DefaultConfig(),
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	// Set up logger if not provided
	if cfg.Logger == nil {
		var err error
		cfg.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	coreConfig := clean.Config{
		KeepEmoji:      cfg.KeepEmoji,
		CollapseSpaces: cfg.CollapseSpaces,
	}
	cleaner, err := clean.NewCleaner(coreConfig, cfg.Logger)
	if err != nil {
		return nil, err
	}

	tc := &TextCleaner{
		cleaner: cleaner,
		logger:  cfg.Logger,
		warmed:  false,
	}

	if cfg.WarmUp {
		tc.WarmUp(context.Background(), cfg.WarmUpConfig)
	}

	return tc, nil
}

// Clean normalizes text and returns the cleaned text with a per-category
// change tally. It never fails: empty input returns an all-zero tally and
// unusual Unicode content is processed best-effort.
func (tc *TextCleaner) Clean(ctx context.Context, text string) domain.Result {
	return tc.cleaner.Clean(ctx, text)
}

// CleanValue cleans a dynamically typed value. It is the entry point for
// callers whose input arrives untyped, such as decoded JSON: any non-string
// value fails with domain.ErrNotText before any work is done.
func (tc *TextCleaner) CleanValue(ctx context.Context, value interface{}) (domain.Result, error) {
	text, ok := value.(string)
	if !ok {
		tc.logger.Error("Rejected non-text input", "type", fmt.Sprintf("%T", value))
		return domain.Result{}, fmt.Errorf("clean value: %w", domain.ErrNotText)
	}
	return tc.cleaner.Clean(ctx, text), nil
}

// WarmUp performs system warm-up to optimize performance.
func (tc *TextCleaner) WarmUp(ctx context.Context, cfg warmup.Config) {
	if tc.warmed {
		tc.logger.Debug("System already warmed up, skipping")
		return
	}

	warmupMgr := warmup.NewManager(tc.logger, cfg)
	warmupMgr.RegisterCleaner(tc.cleaner)

	warmupMgr.WarmUp(ctx)
	tc.warmed = true
}
