// Package registry composes detection and extractor selection into the
// single entry point callers use to parse statement files.
package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/bank"
	"github.com/finlens-dev/finlens/internal/statement/bank/icici"
	"github.com/finlens-dev/finlens/internal/statement/bank/idfcfirst"
	"github.com/finlens-dev/finlens/internal/statement/detect"
)

// Registry maps institution codes to institutions and runs auto-detection.
// Built once at startup; afterwards read-only and safe for concurrent use.
type Registry struct {
	banks    map[string]bank.Institution
	order    []string
	detector *detect.Detector
}

// New builds a registry with the default institutions registered.
func New() *Registry {
	r := &Registry{
		banks:    make(map[string]bank.Institution),
		detector: detect.New(),
	}

	r.Register(icici.New())
	r.Register(idfcfirst.New())

	return r
}

// Register adds an institution. Call during startup only; the registry is
// shared without synchronization afterwards.
func (r *Registry) Register(b bank.Institution) {
	code := b.Info().Code
	if _, exists := r.banks[code]; !exists {
		r.order = append(r.order, code)
	}

	r.banks[code] = b
	r.detector.Register(b)
}

// Bank looks up an institution by code.
func (r *Registry) Bank(code string) (bank.Institution, bool) {
	b, ok := r.banks[code]
	return b, ok
}

// Detector exposes the underlying detection engine.
func (r *Registry) Detector() *detect.Detector {
	return r.detector
}

// AutoParse detects the institution and parses the statement with its
// format parser. When detection is inconclusive or the detected parser
// fails, it falls back to trying every registered parser for the file's
// extension; AutoParse only fails when that fallback fails too.
//
// The detection result is nil when parsing succeeded via the fallback path.
func (r *Registry) AutoParse(filename string, data []byte, opts statement.Options) (*statement.ParseResult, *detect.Result, error) {
	detection, err := r.detector.Detect(filename, data)
	if err == nil {
		if b, ok := r.banks[detection.Bank]; ok {
			if parser, ok := b.Parser(detection.Format); ok {
				result, parseErr := parser.ParseBytes(data, opts)
				if parseErr == nil {
					result.BankName = b.Info().Name
					return result, detection, nil
				}
			}
		}
	}

	result, err := r.parseByExtension(filename, data, opts)
	if err != nil {
		return nil, nil, err
	}

	return result, nil, nil
}

// ParseWithBank bypasses detection for callers that already know the
// institution. It fails when the code or the (code, format) pair is
// unknown.
func (r *Registry) ParseWithBank(code string, format statement.FileFormat, data []byte, opts statement.Options) (*statement.ParseResult, error) {
	b, ok := r.banks[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown bank %q", statement.ErrParse, code)
	}

	parser, ok := b.Parser(format)
	if !ok {
		return nil, fmt.Errorf("%w: no %s parser for bank %q", statement.ErrUnsupportedFormat, format, code)
	}

	result, err := parser.ParseBytes(data, opts)
	if err != nil {
		return nil, err
	}

	result.BankName = b.Info().Name

	return result, nil
}

// parseByExtension determines the format from the filename extension and
// tries every registered institution's parser for it in registration
// order. Extractor-level failures move on to the next candidate.
func (r *Registry) parseByExtension(filename string, data []byte, opts statement.Options) (*statement.ParseResult, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")

	format, ok := statement.FormatFromExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%w: unknown extension %q", statement.ErrUnsupportedFormat, ext)
	}

	for _, code := range r.order {
		b := r.banks[code]

		parser, ok := b.Parser(format)
		if !ok || !parser.CanParse(filename) {
			continue
		}

		result, err := parser.ParseBytes(data, opts)
		if err != nil {
			continue
		}

		result.BankName = b.Info().Name

		return result, nil
	}

	return nil, fmt.Errorf("%w: no parser could handle %s", statement.ErrUnsupportedFormat, filename)
}

// Banks lists registered institution codes in registration order.
func (r *Registry) Banks() []string {
	codes := make([]string, len(r.order))
	copy(codes, r.order)

	return codes
}

// BankNames lists registered institution display names.
func (r *Registry) BankNames() []string {
	names := make([]string, 0, len(r.order))
	for _, code := range r.order {
		names = append(names, r.banks[code].Info().Name)
	}

	return names
}

// SupportedExtensions lists every file extension a registered parser
// serves, sorted and de-duplicated.
func (r *Registry) SupportedExtensions() []string {
	seen := make(map[string]bool)

	for _, code := range r.order {
		for _, p := range r.banks[code].Parsers() {
			for _, ext := range p.Format().Extensions() {
				seen[ext] = true
			}
		}
	}

	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

// ParserNames lists every registered parser identifier.
func (r *Registry) ParserNames() []string {
	var names []string

	for _, code := range r.order {
		for _, p := range r.banks[code].Parsers() {
			names = append(names, bank.ParserName(p))
		}
	}

	return names
}

// BankParsers lists the parser identifiers for one institution.
func (r *Registry) BankParsers(code string) ([]string, bool) {
	b, ok := r.banks[code]
	if !ok {
		return nil, false
	}

	var names []string
	for _, p := range b.Parsers() {
		names = append(names, bank.ParserName(p))
	}

	return names, true
}
