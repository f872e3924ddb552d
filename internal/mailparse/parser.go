// Package mailparse extracts alert fields from Opsgenie notification emails.
package mailparse

import (
	"strings"
	"unicode"

	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/utils"
	"go.uber.org/zap"
)

// fieldRule is one "label, value up to terminator" production. An empty
// terminator ends the value at the next whitespace.
type fieldRule struct {
	label      string
	terminator string
	assign     func(fields *core.ParsedEmailFields, value *string)
}

var fieldRules = []fieldRule{
	{
		label:  "alertname:",
		assign: func(f *core.ParsedEmailFields, v *string) { f.AlertName = v },
	},
	{
		label:  "zone:",
		assign: func(f *core.ParsedEmailFields, v *string) { f.Zone = v },
	},
	{
		label:      "description:",
		terminator: " message:",
		assign:     func(f *core.ParsedEmailFields, v *string) { f.Description = v },
	},
	{
		label:      "Show Alert (",
		terminator: ")",
		assign:     func(f *core.ParsedEmailFields, v *string) { f.AlertDetailURL = v },
	},
}

// Parser extracts structured fields from alert emails
type Parser struct {
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewParser creates a new email parser
func NewParser(textProcessor *utils.TextProcessor, logger *zap.Logger) *Parser {
	return &Parser{
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Parse extracts the alert fields from a raw email. A structural failure
// yields an empty field set.
func (p *Parser) Parse(raw core.RawEmail) core.ParsedEmailFields {
	content, err := p.extractPlainText(raw.Raw)
	if err != nil {
		p.logger.Error("Failed to parse email", zap.Uint32("uid", raw.UID), zap.Error(err))
		return core.ParsedEmailFields{}
	}
	return ParseFields(content)
}

// ParseFields applies every field rule to content independently
func ParseFields(content string) core.ParsedEmailFields {
	var fields core.ParsedEmailFields
	for _, rule := range fieldRules {
		if value, ok := rule.extract(content); ok {
			rule.assign(&fields, &value)
		}
	}
	return fields
}

func (r fieldRule) extract(content string) (string, bool) {
	_, rest, found := strings.Cut(content, r.label)
	if !found {
		return "", false
	}

	if r.terminator != "" {
		value, _, _ := strings.Cut(rest, r.terminator)
		return value, true
	}

	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return "", false
	}
	if end := strings.IndexFunc(rest, unicode.IsSpace); end >= 0 {
		return rest[:end], true
	}
	return rest, true
}
