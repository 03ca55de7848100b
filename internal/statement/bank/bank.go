// Package bank defines the institution descriptor, the detection pattern
// primitives, and the contract every format-specific extractor implements.
package bank

import (
	"regexp"
	"strings"

	"github.com/finlens-dev/finlens/internal/statement"
)

// DetectionPattern is one matching strategy used to attribute a statement
// file to an institution. Patterns are immutable and safe for concurrent use.
type DetectionPattern interface {
	// MatchesContent tests the decoded document text.
	MatchesContent(content string) bool
	// MatchesFilename tests the original filename.
	MatchesFilename(filename string) bool
}

// ContentKeywords matches when the content contains any keyword,
// case-insensitive.
type ContentKeywords []string

func (p ContentKeywords) MatchesContent(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range p {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}

	return false
}

func (p ContentKeywords) MatchesFilename(string) bool { return false }

// ContentRegex matches the content against a regular expression.
type ContentRegex struct{ re *regexp.Regexp }

func NewContentRegex(expr string) ContentRegex {
	return ContentRegex{re: regexp.MustCompile(expr)}
}

func (p ContentRegex) MatchesContent(content string) bool { return p.re.MatchString(content) }
func (p ContentRegex) MatchesFilename(string) bool        { return false }

// FilenameRegex matches the filename against a regular expression.
type FilenameRegex struct{ re *regexp.Regexp }

func NewFilenameRegex(expr string) FilenameRegex {
	return FilenameRegex{re: regexp.MustCompile(expr)}
}

func (p FilenameRegex) MatchesContent(string) bool           { return false }
func (p FilenameRegex) MatchesFilename(filename string) bool { return p.re.MatchString(filename) }

// AccountNumberRegex matches account number formats found in the content.
type AccountNumberRegex struct{ re *regexp.Regexp }

func NewAccountNumberRegex(expr string) AccountNumberRegex {
	return AccountNumberRegex{re: regexp.MustCompile(expr)}
}

func (p AccountNumberRegex) MatchesContent(content string) bool { return p.re.MatchString(content) }
func (p AccountNumberRegex) MatchesFilename(string) bool        { return false }

// Info is the static descriptor of one institution. Built once at startup
// and shared read-only across parse requests.
type Info struct {
	// Name is the display name, e.g. "ICICI Bank".
	Name string
	// Code is the unique short key, e.g. "icici".
	Code string
	// Aliases are cheap filename substrings that identify the institution.
	Aliases []string
	// Patterns are evaluated in order against content or filename.
	Patterns []DetectionPattern
}

// MatchesContent reports whether any pattern matches the document text.
func (i *Info) MatchesContent(content string) bool {
	for _, p := range i.Patterns {
		if p.MatchesContent(content) {
			return true
		}
	}

	return false
}

// MatchesFilename reports whether an alias substring or a filename pattern
// matches, case-insensitive.
func (i *Info) MatchesFilename(filename string) bool {
	lower := strings.ToLower(filename)
	for _, alias := range i.Aliases {
		if strings.Contains(lower, strings.ToLower(alias)) {
			return true
		}
	}

	for _, p := range i.Patterns {
		if p.MatchesFilename(filename) {
			return true
		}
	}

	return false
}

// FormatParser turns raw document bytes into canonical transactions for one
// (institution, file format) pair. Implementations hold no state across
// calls and perform no I/O beyond reading their input.
type FormatParser interface {
	// Format is the file format this parser serves.
	Format() statement.FileFormat

	// BankCode is the institution the parser belongs to.
	BankCode() string

	// CanParse is a cheap predicate, by default an extension check.
	CanParse(filename string) bool

	// Parse reads and parses a statement file from disk.
	Parse(path string, opts statement.Options) (*statement.ParseResult, error)

	// ParseBytes parses an in-memory statement document.
	ParseBytes(data []byte, opts statement.Options) (*statement.ParseResult, error)
}

// ParserName derives the conventional parser identifier.
func ParserName(p FormatParser) string {
	return p.BankCode() + "-" + string(p.Format())
}

// ExtensionMatches is the default CanParse implementation: true when the
// filename extension maps to the given format.
func ExtensionMatches(filename string, format statement.FileFormat) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return false
	}

	got, ok := statement.FormatFromExtension(filename[idx+1:])

	return ok && got == format
}

// Institution bundles a descriptor with its format parsers.
type Institution interface {
	// Info returns the static descriptor.
	Info() *Info

	// Parsers lists every format parser the institution provides.
	Parsers() []FormatParser

	// Parser returns the parser for a format, if one exists.
	Parser(format statement.FileFormat) (FormatParser, bool)
}

// Confidence scores an institution against a (filename, content) pair:
// +0.4 for a filename match, +0.6 for a content match, capped at 1.0.
func Confidence(inst Institution, filename, content string) float64 {
	score := 0.0

	if inst.Info().MatchesFilename(filename) {
		score += 0.4
	}

	if inst.Info().MatchesContent(content) {
		score += 0.6
	}

	if score > 1.0 {
		score = 1.0
	}

	return score
}
