// Package derive holds the pure field derivations the load stage applies to
// cleaned text: identifier extraction from source URLs, iframe markup
// synthesis, and numeric coercion for durations and view counts.
//
// Every function here is total: defined for all inputs, including empty
// strings, and never returns an error. Absence is expressed through ok=false
// or a zero value, which keeps the loader's row loop free of error plumbing.
package derive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// IdentifierExtractor pulls an embedded media identifier out of a source URL.
type IdentifierExtractor interface {
	ExtractIdentifier(url string) (id string, ok bool)
}

// MarkupSynthesizer turns an identifier into embeddable player markup.
type MarkupSynthesizer interface {
	SynthesizeMarkup(id string) (markup string, ok bool)
}

// DurationParser coerces free-form duration text into whole seconds.
type DurationParser interface {
	ParseDuration(text string) (seconds int, ok bool)
}

// ViewsParser coerces view-count text into an integer, absorbing garbage as 0.
type ViewsParser interface {
	ParseViews(text string) int
}

// Deriver bundles all four capabilities. The loader depends on this interface
// so tests can substitute alternate derivations without touching control flow.
type Deriver interface {
	IdentifierExtractor
	MarkupSynthesizer
	DurationParser
	ViewsParser
}

var (
	// Source URLs carry the identifier as a "video.<token>" path element.
	identifierPattern = regexp.MustCompile(`video\.([a-z0-9]+)`)

	// First run of digits anywhere in the duration text, e.g. "1305 sec".
	digitsPattern = regexp.MustCompile(`\d+`)
)

// CatalogDeriver is the production implementation, matching the formats of
// the media catalog dump. EmbedBaseURL is the player endpoint identifiers are
// appended to when synthesizing markup.
type CatalogDeriver struct {
	EmbedBaseURL string
}

// NewCatalogDeriver builds a deriver for the given embed player base URL.
func NewCatalogDeriver(embedBaseURL string) *CatalogDeriver {
	return &CatalogDeriver{EmbedBaseURL: strings.TrimRight(embedBaseURL, "/")}
}

// ExtractIdentifier returns the identifier token embedded in url, or ok=false
// when the URL is empty or carries no identifier.
func (d *CatalogDeriver) ExtractIdentifier(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	m := identifierPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SynthesizeMarkup returns the embeddable iframe for an identifier, or
// ok=false for an empty identifier. Output is deterministic given the id.
func (d *CatalogDeriver) SynthesizeMarkup(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	markup := fmt.Sprintf(
		`<iframe src="%s/%s" frameborder="0" width="510" height="400" scrolling="no" allowfullscreen="allowfullscreen"></iframe>`,
		d.EmbedBaseURL, id,
	)
	return markup, true
}

// ParseDuration extracts the first run of digits in text as a second count.
// ok=false when the text is empty or holds no digits.
func (d *CatalogDeriver) ParseDuration(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	m := digitsPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// Digit run too long for an int; treat like no parse.
		return 0, false
	}
	return n, true
}

// ParseViews strips thousands separators and parses text as an integer.
// Empty or unparseable input yields 0, never an error.
func (d *CatalogDeriver) ParseViews(text string) int {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
