package clean

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// bomString is the byte order mark. A leading BOM is preserved verbatim;
// a mid-text one is stripped with the other format characters.
const bomString = "\uFEFF"

// Matchers that never need extended class syntax, compiled once at load time.
var (
	// crlfRe matches a CR-only or CR+LF line ending.
	crlfRe = regexp.MustCompile("\r\n?")
	// citationRe matches an inline citation placeholder together with any
	// run of ASCII spaces directly before it, so removal leaves no gap.
	// Only the exact shape is matched; malformed markers pass through.
	citationRe = regexp.MustCompile(` *\(oaicite:[0-9]+\)\{index=[0-9]+\}`)
	// ctrlRe matches C0 controls and DEL except TAB, LF and CR.
	ctrlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	// spaceRunRe matches a run of two or more ASCII spaces.
	spaceRunRe = regexp.MustCompile("  +")
)

// prettifyRule pairs a matcher with its ASCII replacement.
type prettifyRule struct {
	re   *regexp.Regexp
	with string
}

// prettifyTable maps smart punctuation to ASCII equivalents. The rules are
// applied in order; each match counts as one prettification.
var prettifyTable = []prettifyRule{
	{regexp.MustCompile("[\u2018\u2019\u201A]"), "'"},                   // curly single quotes, low-9 quote
	{regexp.MustCompile("[\u201C\u201D\u201E]"), `"`},                   // curly double quotes, low-9 double quote
	{regexp.MustCompile("[\u2013\u2014]"), "-"},                         // en dash, em dash
	{regexp.MustCompile("\u2026"), "..."},                               // horizontal ellipsis
	{regexp.MustCompile("[\u2022\u2023\u2043\u25AA\u25B8\u25BA]"), "-"}, // bullets and triangles
}

// Invisible format characters stripped in every mode. U+200C (ZWNJ) is
// excluded here because emoji preservation keeps it; it joins the set when
// KeepEmoji is off.
var invisibleRanges = [][2]rune{
	{0x00AD, 0x00AD}, // soft hyphen
	{0x180E, 0x180E}, // mongolian vowel separator
	{0x200B, 0x200B}, // zero width space
	{0x200E, 0x200F}, // bidi marks
	{0x202A, 0x202E}, // bidi embedding and override controls
	{0x2060, 0x2064}, // word joiner, invisible operators
	{0x2066, 0x2069}, // bidi isolate controls
	{0xFEFF, 0xFEFF}, // mid-text BOM
}

// Emoji glue: stripped as a second sweep only when KeepEmoji is off.
var emojiGlueRanges = [][2]rune{
	{0x200D, 0x200D}, // zero width joiner
	{0xFE00, 0xFE0F}, // variation selectors
}

// Exotic spaces folded to a plain ASCII space.
var exoticSpaceRanges = [][2]rune{
	{0x00A0, 0x00A0}, // no-break space
	{0x1680, 0x1680}, // ogham space mark
	{0x2000, 0x200A}, // en quad .. hair space
	{0x202F, 0x202F}, // narrow no-break space
	{0x205F, 0x205F}, // medium mathematical space
	{0x3000, 0x3000}, // ideographic space
}

const (
	invisibleClass   = `[\x{00AD}\x{180E}\x{200B}\x{200E}\x{200F}\x{202A}-\x{202E}\x{2060}-\x{2064}\x{2066}-\x{2069}\x{FEFF}]`
	invisibleNJClass = `[\x{00AD}\x{180E}\x{200B}\x{200C}\x{200E}\x{200F}\x{202A}-\x{202E}\x{2060}-\x{2064}\x{2066}-\x{2069}\x{FEFF}]`
	emojiGlueClass   = `[\x{200D}\x{FE00}-\x{FE0F}]`
	exoticSpaceClass = `[\x{00A0}\x{1680}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]`
)

// Feature probes, computed once at load time and shared read-only across
// callers. When a probe fails the affected stage degrades: the NFKC fold is
// skipped, the class sweeps fall back to rune scans with identical output.
var (
	nfkcAvailable = norm.NFKC.String("\uFB01") == "fi"
	classSyntaxOK = probeClassSyntax()
)

func probeClassSyntax() bool {
	_, err := regexp.Compile(`[\x{200B}\x{2060}-\x{2064}]`)
	return err == nil
}

var (
	invisibleRe   *regexp.Regexp
	invisibleNJRe *regexp.Regexp
	emojiGlueRe   *regexp.Regexp
	exoticSpaceRe *regexp.Regexp

	invisibleSet   map[rune]struct{}
	invisibleNJSet map[rune]struct{}
	emojiGlueSet   map[rune]struct{}
	exoticSpaceSet map[rune]struct{}
)

func init() {
	if classSyntaxOK {
		invisibleRe = regexp.MustCompile(invisibleClass)
		invisibleNJRe = regexp.MustCompile(invisibleNJClass)
		emojiGlueRe = regexp.MustCompile(emojiGlueClass)
		exoticSpaceRe = regexp.MustCompile(exoticSpaceClass)
	}

	invisibleSet = makeRuneSet(invisibleRanges)
	invisibleNJSet = makeRuneSet(invisibleRanges)
	invisibleNJSet[0x200C] = struct{}{}
	emojiGlueSet = makeRuneSet(emojiGlueRanges)
	exoticSpaceSet = makeRuneSet(exoticSpaceRanges)
}

func makeRuneSet(ranges [][2]rune) map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, rr := range ranges {
		for r := rr[0]; r <= rr[1]; r++ {
			set[r] = struct{}{}
		}
	}
	return set
}
