// Package detect identifies which institution produced a statement file,
// scoring every registered institution against the filename and decoded
// content and keeping the best candidate above a confidence threshold.
package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/finlens-dev/finlens/internal/encoding"
	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/bank"
)

// Threshold is the minimum confidence for a detection to be accepted.
const Threshold = 0.3

// filenameOnlyConfidence is the fixed score for the lower-assurance
// filename-only path.
const filenameOnlyConfidence = 0.7

// Result describes one successful classification. Produced fresh per call,
// never persisted by this package.
type Result struct {
	// Bank is the detected institution code.
	Bank string
	// Confidence is in [0.0, 1.0].
	Confidence float64
	// Format is the file format detected from the extension.
	Format statement.FileFormat
	// Parser is the chosen parser identifier.
	Parser string
	// Reason is a human-readable detection rationale.
	Reason string
}

// Detector holds the registered institutions. Registration happens at
// startup; afterwards the detector is read-only and safe to share.
type Detector struct {
	banks []bank.Institution
}

func New() *Detector {
	return &Detector{}
}

// Register adds an institution to the candidate set.
func (d *Detector) Register(b bank.Institution) {
	d.banks = append(d.banks, b)
}

// RegisteredBanks lists the registered institution codes in order.
func (d *Detector) RegisteredBanks() []string {
	codes := make([]string, len(d.banks))
	for i, b := range d.banks {
		codes[i] = b.Info().Code
	}

	return codes
}

// Institution looks up a registered institution by code.
func (d *Detector) Institution(code string) (bank.Institution, bool) {
	for _, b := range d.banks {
		if b.Info().Code == code {
			return b, true
		}
	}

	return nil, false
}

// Detect classifies a statement file from its filename and raw bytes.
// Returns an error when the format is unrecognized or no institution
// reaches the confidence threshold.
func (d *Detector) Detect(filename string, data []byte) (*Result, error) {
	format, err := d.DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	content := encoding.DecodeText(data)

	result, ok := d.DetectFromContent(content, filename, format)
	if !ok {
		return nil, fmt.Errorf("%w: could not detect bank from file %s", statement.ErrParse, filename)
	}

	return result, nil
}

// DetectFromContent scores every institution against the decoded text and
// filename and keeps the single best candidate; ties keep the first
// evaluated. Institutions without a parser for the format cannot be
// selected. The second return is false below the confidence threshold.
func (d *Detector) DetectFromContent(content, filename string, format statement.FileFormat) (*Result, bool) {
	var best *Result

	bestConfidence := 0.0

	for _, b := range d.banks {
		parser, ok := b.Parser(format)
		if !ok {
			continue
		}

		confidence := bank.Confidence(b, filename, content)
		if confidence <= bestConfidence {
			continue
		}

		bestConfidence = confidence
		best = &Result{
			Bank:       b.Info().Code,
			Confidence: confidence,
			Format:     format,
			Parser:     bank.ParserName(parser),
			Reason:     reasonFor(confidence),
		}
	}

	if bestConfidence < Threshold {
		return nil, false
	}

	return best, true
}

// DetectFromFilename is the lower-assurance path for environments where
// content is unavailable. The first institution whose aliases or filename
// patterns match wins, with a fixed confidence.
func (d *Detector) DetectFromFilename(filename string) (*Result, bool) {
	name := filepath.Base(filename)

	format, err := d.DetectFormat(filename)
	if err != nil {
		return nil, false
	}

	for _, b := range d.banks {
		if !b.Info().MatchesFilename(name) {
			continue
		}

		parser, ok := b.Parser(format)
		if !ok {
			continue
		}

		return &Result{
			Bank:       b.Info().Code,
			Confidence: filenameOnlyConfidence,
			Format:     format,
			Parser:     bank.ParserName(parser),
			Reason:     "matched from filename pattern",
		}, true
	}

	return nil, false
}

// DetectFormat determines the file format from the filename extension.
func (d *Detector) DetectFormat(filename string) (statement.FileFormat, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: no file extension on %s", statement.ErrUnsupportedFormat, filename)
	}

	format, ok := statement.FormatFromExtension(ext)
	if !ok {
		return "", fmt.Errorf("%w: unrecognized extension %q", statement.ErrUnsupportedFormat, ext)
	}

	return format, nil
}

func reasonFor(confidence float64) string {
	switch {
	case confidence > 0.8:
		return "strong match from filename and content"
	case confidence > 0.5:
		return "moderate match from filename or content"
	}

	return "weak match, low confidence"
}
