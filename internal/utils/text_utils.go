package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText safely truncates text to the specified maximum size in bytes
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "..."
}

// DecodeUTF8 decodes raw bytes as UTF-8, replacing invalid sequences with
// the Unicode replacement character
func (tp *TextProcessor) DecodeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		tp.logger.Debug("UTF-8 decoder failed, falling back to rune conversion", zap.Error(err))
		return string([]rune(string(raw)))
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(raw)),
		zap.Int("sanitized_size", len(decoded)))

	return string(decoded)
}
