// src/parsers/factory.go
package parsers

import (
	"fmt"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/parsers/generic"
	"github.com/username/tradejournal/src/parsers/mt4"
	"github.com/username/tradejournal/src/parsers/mt5"
)

type formatStrategy struct {
	kind         models.FormatKind
	detect       func(header []string) bool
	newExtractor func() Extractor
}

// strategies are evaluated in order; the first whose detect matches wins.
// MT4 precedes MT5 because MT4 headers also satisfy the MT5 indicator count.
// Generic matches everything and must stay last.
var strategies = []formatStrategy{
	{kind: models.FormatMT4, detect: mt4.Detect, newExtractor: func() Extractor { return mt4.NewParser() }},
	{kind: models.FormatMT5, detect: mt5.Detect, newExtractor: func() Extractor { return mt5.NewParser() }},
	{kind: models.FormatGeneric, detect: func([]string) bool { return true }, newExtractor: func() Extractor { return generic.NewParser() }},
}

// DetectFormat classifies a header row.
func DetectFormat(header []string) models.FormatKind {
	for _, s := range strategies {
		if s.detect(header) {
			return s.kind
		}
	}
	return models.FormatGeneric
}

// GetExtractor returns the extractor registered for kind.
func GetExtractor(kind models.FormatKind) (Extractor, error) {
	for _, s := range strategies {
		if s.kind == kind {
			return s.newExtractor(), nil
		}
	}
	return nil, fmt.Errorf("no parser available for format: %s", kind)
}

// SupportedFormats lists the registered formats in detection order.
func SupportedFormats() []models.FormatKind {
	kinds := make([]models.FormatKind, 0, len(strategies))
	for _, s := range strategies {
		kinds = append(kinds, s.kind)
	}
	return kinds
}
