package clean

import (
	"context"
	"strings"
	"testing"

	"github.com/baditaflorin/go_text_cleaner/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Close() error                 { return nil }

func newTestCleaner(t *testing.T, cfg Config) *Cleaner {
	t.Helper()
	c, err := NewCleaner(cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewCleaner: %v", err)
	}
	return c
}

func TestCleanPipeline(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		changes domain.Changes
	}{
		{
			name:  "zero width and nbsp",
			input: "\u200BHello\u00A0world\u200B",
			want:  "Hello world",
			changes: domain.Changes{
				RemovedInvisible: 2,
				Prettified:       1,
				Total:            3,
			},
		},
		{
			name:  "citation placeholder",
			input: "This is text (oaicite:5){index=5}.",
			want:  "This is text.",
			changes: domain.Changes{
				RemovedCitations: 1,
				Total:            1,
			},
		},
		{
			name:  "two citations",
			input: "a (oaicite:1){index=1} b (oaicite:12){index=12}",
			want:  "a b",
			changes: domain.Changes{
				RemovedCitations: 2,
				Total:            2,
			},
		},
		{
			name:  "smart punctuation",
			input: "\u201CQuotes\u201D \u2014 and ellipsis\u2026",
			want:  `"Quotes" - and ellipsis...`,
			changes: domain.Changes{
				Prettified: 4,
				Total:      4,
			},
		},
		{
			name:  "line endings",
			input: "a\r\nb\rc",
			want:  "a\nb\nc",
			changes: domain.Changes{
				Prettified: 2,
				Total:      2,
			},
		},
		{
			name:  "control characters",
			input: "a\x07b\x1Bc\x7Fd",
			want:  "abcd",
			changes: domain.Changes{
				RemovedCtrl: 3,
				Total:       3,
			},
		},
		{
			name:    "tab and newline survive",
			input:   "a\tb\nc",
			want:    "a\tb\nc",
			changes: domain.Changes{},
		},
		{
			name:  "space runs collapse and trim",
			input: "  a  b   c  ",
			want:  "a b c",
			changes: domain.Changes{
				CollapsedSpaces: 4,
				Total:           4,
			},
		},
		{
			name:  "fullwidth folds",
			input: "\uFF21\uFF22",
			want:  "AB",
			changes: domain.Changes{
				Prettified: 2,
				Total:      2,
			},
		},
		{
			name:  "compatibility ligature folds",
			input: "\uFB01le",
			want:  "file",
			changes: domain.Changes{
				Prettified: 1,
				Total:      1,
			},
		},
		{
			name:  "bullet list",
			input: "\u2022 one\n\u2023 two",
			want:  "- one\n- two",
			changes: domain.Changes{
				Prettified: 2,
				Total:      2,
			},
		},
		{
			name:  "bidi controls",
			input: "a\u202Eb\u2066c\u200Ed",
			want:  "abcd",
			changes: domain.Changes{
				RemovedInvisible: 3,
				Total:            3,
			},
		},
		{
			name:  "mid-text bom stripped",
			input: "a\uFEFFb",
			want:  "ab",
			changes: domain.Changes{
				RemovedInvisible: 1,
				Total:            1,
			},
		},
		{
			name:    "malformed citation untouched",
			input:   "(oaicite:x){index=1}",
			want:    "(oaicite:x){index=1}",
			changes: domain.Changes{},
		},
		{
			name:    "entity name untouched",
			input:   "a&nbsp;b",
			want:    "a&nbsp;b",
			changes: domain.Changes{},
		},
		{
			name:    "empty input",
			input:   "",
			want:    "",
			changes: domain.Changes{},
		},
	}

	c := newTestCleaner(t, DefaultConfig())
	ctx := context.Background()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Clean(ctx, tc.input)
			if result.Cleaned != tc.want {
				t.Errorf("cleaned = %q, want %q", result.Cleaned, tc.want)
			}
			if result.Changes != tc.changes {
				t.Errorf("changes = %+v, want %+v", result.Changes, tc.changes)
			}
		})
	}
}

func TestCleanBOM(t *testing.T) {
	c := newTestCleaner(t, DefaultConfig())
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		want  string
		total int
	}{
		{"leading bom preserved", "\uFEFFHello", "\uFEFFHello", 0},
		{"bom only", "\uFEFF", "\uFEFF", 0},
		{"bom then trim", "\uFEFF  a", "\uFEFFa", 1},
		{"bom then dirty text", "\uFEFF\u200Ba", "\uFEFFa", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Clean(ctx, tc.input)
			if result.Cleaned != tc.want {
				t.Errorf("cleaned = %q, want %q", result.Cleaned, tc.want)
			}
			if result.Changes.Total != tc.total {
				t.Errorf("total = %d, want %d", result.Changes.Total, tc.total)
			}
		})
	}
}

func TestCleanEmojiGlue(t *testing.T) {
	ctx := context.Background()

	family := "\U0001F468\u200D\U0001F469\u200D\U0001F467"
	thumbs := "\U0001F44D\uFE0F"

	t.Run("preserved by default", func(t *testing.T) {
		c := newTestCleaner(t, DefaultConfig())
		for _, input := range []string{family, thumbs, "A\u200DBC", "A\u200CB"} {
			result := c.Clean(ctx, input)
			if result.Cleaned != input {
				t.Errorf("cleaned = %q, want unchanged %q", result.Cleaned, input)
			}
			if result.Changes.Total != 0 {
				t.Errorf("total = %d, want 0", result.Changes.Total)
			}
		}
	})

	t.Run("stripped when keep emoji is off", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.KeepEmoji = false
		c := newTestCleaner(t, cfg)

		tests := []struct {
			input     string
			want      string
			invisible int
		}{
			{family, "\U0001F468\U0001F469\U0001F467", 2},
			{thumbs, "\U0001F44D", 1},
			{"A\u200DBC", "ABC", 1},
			{"A\u200CB", "AB", 1},
		}
		for _, tc := range tests {
			result := c.Clean(ctx, tc.input)
			if result.Cleaned != tc.want {
				t.Errorf("cleaned = %q, want %q", result.Cleaned, tc.want)
			}
			if result.Changes.RemovedInvisible != tc.invisible {
				t.Errorf("removedInvisible = %d, want %d", result.Changes.RemovedInvisible, tc.invisible)
			}
		}
	})
}

func TestCleanCollapseSpacesOff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollapseSpaces = false
	c := newTestCleaner(t, cfg)

	result := c.Clean(context.Background(), "  a  b ")
	if result.Cleaned != "  a  b " {
		t.Errorf("cleaned = %q, want input unchanged", result.Cleaned)
	}
	if result.Changes.Total != 0 {
		t.Errorf("total = %d, want 0", result.Changes.Total)
	}
}

func TestCleanCombiningMarks(t *testing.T) {
	// Composition changes the text while the per-code-point fold count stays
	// zero: neither 'e' nor a lone combining acute maps differently.
	c := newTestCleaner(t, DefaultConfig())
	result := c.Clean(context.Background(), "e\u0301")
	if result.Cleaned != "\u00E9" {
		t.Errorf("cleaned = %q, want %q", result.Cleaned, "\u00E9")
	}
	if result.Changes.Prettified != 0 {
		t.Errorf("prettified = %d, want 0", result.Changes.Prettified)
	}
}

func TestCleanSumInvariant(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii text",
		"\u200BHello\u00A0world\u200B",
		"This is text (oaicite:5){index=5}.",
		"\u201CQuotes\u201D \u2014 and ellipsis\u2026",
		"\uFEFF  mixed \r\n \u2022 bag \x07 \uFF21  ",
		strings.Repeat("a\u00A0\u200B\u2019 ", 50),
	}

	for _, cfg := range []Config{
		DefaultConfig(),
		{KeepEmoji: false, CollapseSpaces: true},
		{KeepEmoji: true, CollapseSpaces: false},
		{KeepEmoji: false, CollapseSpaces: false},
	} {
		c := newTestCleaner(t, cfg)
		for _, input := range inputs {
			ch := c.Clean(context.Background(), input).Changes
			sum := ch.RemovedInvisible + ch.RemovedCtrl + ch.RemovedCitations +
				ch.Prettified + ch.CollapsedSpaces
			if ch.Total != sum {
				t.Errorf("config %+v input %q: total = %d, counters sum to %d", cfg, input, ch.Total, sum)
			}
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"\u200BHello\u00A0world\u200B",
		"This is text (oaicite:5){index=5}.",
		"\u201CQuotes\u201D \u2014 and ellipsis\u2026",
		"\uFEFF  mixed \r\n \u2022 bag \x07 \uFF21  ",
		"e\u0301 composed",
		"a\tb\nc",
	}

	c := newTestCleaner(t, DefaultConfig())
	ctx := context.Background()

	for _, input := range inputs {
		first := c.Clean(ctx, input)
		second := c.Clean(ctx, first.Cleaned)
		if second.Cleaned != first.Cleaned {
			t.Errorf("second pass changed %q to %q", first.Cleaned, second.Cleaned)
		}
		if second.Changes.Total != 0 {
			t.Errorf("second pass over %q reported %d changes", first.Cleaned, second.Changes.Total)
		}
	}
}

func TestSweepFallbackMatchesRegexp(t *testing.T) {
	defer func(v bool) { classSyntaxOK = v }(classSyntaxOK)

	inputs := []string{
		"\u200BHello\u00A0world\u200B",
		"a\u202Eb\u2066c\u200Ed",
		"\U0001F468\u200D\U0001F469\uFE0F",
		"non\u00A0breaking\u3000spaces\u2009here",
	}

	for _, cfg := range []Config{
		DefaultConfig(),
		{KeepEmoji: false, CollapseSpaces: true},
	} {
		c := newTestCleaner(t, cfg)
		for _, input := range inputs {
			classSyntaxOK = true
			fast := c.Clean(context.Background(), input)
			classSyntaxOK = false
			slow := c.Clean(context.Background(), input)

			if fast.Cleaned != slow.Cleaned {
				t.Errorf("config %+v input %q: fast %q != fallback %q", cfg, input, fast.Cleaned, slow.Cleaned)
			}
			if fast.Changes != slow.Changes {
				t.Errorf("config %+v input %q: fast %+v != fallback %+v", cfg, input, fast.Changes, slow.Changes)
			}
		}
	}
}

func TestCleanWithoutNFKC(t *testing.T) {
	defer func(v bool) { nfkcAvailable = v }(nfkcAvailable)
	nfkcAvailable = false

	c := newTestCleaner(t, DefaultConfig())
	ctx := context.Background()

	// Exotic spaces still fold through the space table.
	result := c.Clean(ctx, "a\u00A0b")
	if result.Cleaned != "a b" {
		t.Errorf("cleaned = %q, want %q", result.Cleaned, "a b")
	}
	if result.Changes.Prettified != 1 {
		t.Errorf("prettified = %d, want 1", result.Changes.Prettified)
	}

	// Compatibility-only folds are skipped; the rest of the pipeline applies.
	result = c.Clean(ctx, "\uFF21\u200B")
	if result.Cleaned != "\uFF21" {
		t.Errorf("cleaned = %q, want %q", result.Cleaned, "\uFF21")
	}
	if result.Changes.RemovedInvisible != 1 {
		t.Errorf("removedInvisible = %d, want 1", result.Changes.RemovedInvisible)
	}
}

func TestNewCleanerRequiresLogger(t *testing.T) {
	if _, err := NewCleaner(DefaultConfig(), nil); err == nil {
		t.Error("expected error for nil logger")
	}
}

func TestCountNFKCFolds(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"ascii only", 0},
		{"\uFB01", 1},
		{"\uFF21\uFF22\uFF23", 3},
		{"e\u0301", 0},
		{"caf\u00E9", 0},
	}
	for _, tc := range tests {
		if got := countNFKCFolds(tc.input); got != tc.want {
			t.Errorf("countNFKCFolds(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}
