// Package clean implements the ordered text cleaning pipeline.
//
// The pipeline strips invisible and zero-width format characters, removes
// ASCII control characters, deletes inline citation placeholders, folds
// exotic whitespace to plain spaces, straightens smart punctuation and
// normalizes line endings, returning the cleaned text together with an
// itemized tally of every change applied. Order is load-bearing: later
// stages rely on the normalized form produced by earlier ones.
package clean

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_text_cleaner/internal/core/domain"
	"github.com/baditaflorin/go_text_cleaner/internal/pool"
	"github.com/baditaflorin/go_text_cleaner/internal/ports"
)

// Cleaner implements the cleaning pipeline with a fixed configuration.
// It is stateless between calls and safe for concurrent use.
type Cleaner struct {
	config   Config
	logger   ports.Logger
	builders *pool.StringBuilderPool
}

// NewCleaner creates a new cleaner with the given configuration.
func NewCleaner(config Config, logger ports.Logger) (*Cleaner, error) {
	if logger == nil {
		return nil, errors.New("logger must not be nil")
	}
	return &Cleaner{
		config:   config,
		logger:   logger,
		builders: pool.NewStringBuilderPool(),
	}, nil
}

// Clean runs the full pipeline over text and returns the cleaned text with
// the change tally. It never fails; unusual but well-formed input is
// processed best-effort. The context is accepted for API symmetry only: the
// pipeline is bounded and non-blocking, so there are no cancellation points.
func (c *Cleaner) Clean(ctx context.Context, text string) domain.Result {
	_ = ctx

	var changes domain.Changes

	// Short-circuit: avoids BOM probing on an empty sequence.
	if text == "" {
		return domain.Result{Cleaned: "", Changes: changes}
	}

	c.logger.Debug("Starting clean",
		"input_bytes", len(text),
		"keep_emoji", c.config.KeepEmoji,
		"collapse_spaces", c.config.CollapseSpaces,
	)

	// A leading BOM is preserved verbatim: extracted here, re-prepended at
	// the end, never counted as a removed invisible.
	hadBOM := strings.HasPrefix(text, bomString)
	if hadBOM {
		text = text[len(bomString):]
	}

	var n int

	// Line endings. Rewrites count as prettification.
	text, n = replaceCounted(text, crlfRe, "\n")
	changes.Prettified += n

	// Citation placeholders, including any spaces directly before them.
	text, n = replaceCounted(text, citationRe, "")
	changes.RemovedCitations += n

	// Everything past this point only touches runes outside ASCII, except
	// the control sweep and space collapsing.
	asciiOnly := isASCII(text)

	// NFKC compatibility fold. The count is per code point, comparing each
	// rune against its single-character normalization; composition can still
	// change the text when that count is zero, so the fold itself is never
	// skipped on a zero count.
	if nfkcAvailable && !asciiOnly {
		changes.Prettified += countNFKCFolds(text)
		text = norm.NFKC.String(text)
	}

	if !asciiOnly {
		// Invisible format characters. ZWNJ joins the set only when emoji
		// preservation is off.
		invRe, invSet := invisibleRe, invisibleSet
		if !c.config.KeepEmoji {
			invRe, invSet = invisibleNJRe, invisibleNJSet
		}
		text, n = c.sweep(text, invRe, invSet, "")
		changes.RemovedInvisible += n

		// Second sweep: emoji glue, only when emoji preservation is off.
		if !c.config.KeepEmoji {
			text, n = c.sweep(text, emojiGlueRe, emojiGlueSet, "")
			changes.RemovedInvisible += n
		}
	}

	// C0 controls and DEL, keeping TAB and LF. CR is already gone after
	// the line ending rewrite.
	text, n = replaceCounted(text, ctrlRe, "")
	changes.RemovedCtrl += n

	if !asciiOnly {
		// Exotic spaces fold to a plain space.
		text, n = c.sweep(text, exoticSpaceRe, exoticSpaceSet, " ")
		changes.Prettified += n

		// Smart punctuation, applied table entry by table entry.
		for _, rule := range prettifyTable {
			text, n = replaceCounted(text, rule.re, rule.with)
			changes.Prettified += n
		}
	}

	if c.config.CollapseSpaces {
		text, n = replaceCounted(text, spaceRunRe, " ")
		changes.CollapsedSpaces += n
		text = strings.TrimSpace(text)
	}

	if hadBOM {
		text = bomString + text
	}

	changes.Total = changes.RemovedInvisible + changes.RemovedCtrl +
		changes.RemovedCitations + changes.Prettified + changes.CollapsedSpaces

	c.logger.Debug("Finished clean",
		"output_bytes", len(text),
		"removed_invisible", changes.RemovedInvisible,
		"removed_ctrl", changes.RemovedCtrl,
		"removed_citations", changes.RemovedCitations,
		"prettified", changes.Prettified,
		"collapsed_spaces", changes.CollapsedSpaces,
		"total", changes.Total,
	)

	return domain.Result{Cleaned: text, Changes: changes}
}

// replaceCounted counts matches first and substitutes only when something
// matched. Skipping the no-match substitution never changes the output.
func replaceCounted(text string, re *regexp.Regexp, with string) (string, int) {
	n := len(re.FindAllStringIndex(text, -1))
	if n == 0 {
		return text, 0
	}
	return re.ReplaceAllString(text, with), n
}

// sweep replaces every rune of a table with the given replacement, using the
// compiled class when the syntax probe succeeded and a pooled rune scan
// otherwise. Both paths produce identical output and counts.
func (c *Cleaner) sweep(text string, re *regexp.Regexp, set map[rune]struct{}, with string) (string, int) {
	if classSyntaxOK && re != nil {
		return replaceCounted(text, re, with)
	}
	return c.scanReplace(text, set, with)
}

// scanReplace is the degraded path: a rune-by-rune scan over the table.
func (c *Cleaner) scanReplace(text string, set map[rune]struct{}, with string) (string, int) {
	count := 0
	for _, r := range text {
		if _, ok := set[r]; ok {
			count++
		}
	}
	if count == 0 {
		return text, 0
	}

	sb := c.builders.Get()
	defer c.builders.Put(sb)
	sb.Grow(len(text))

	for _, r := range text {
		if _, ok := set[r]; ok {
			sb.WriteString(with)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), count
}

// countNFKCFolds counts code points whose single-character NFKC form differs
// from the code point itself. ASCII never changes under NFKC.
func countNFKCFolds(text string) int {
	count := 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			continue
		}
		s := string(r)
		if norm.NFKC.String(s) != s {
			count++
		}
	}
	return count
}

func isASCII(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
