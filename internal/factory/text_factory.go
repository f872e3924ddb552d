package factory

import (
	"github.com/mikey/alert-report/internal/mailparse"
	"github.com/mikey/alert-report/internal/utils"
	"go.uber.org/zap"
)

// TextFactory creates the text processing components
type TextFactory struct {
	logger *zap.Logger
}

// NewTextFactory creates a new TextFactory
func NewTextFactory(logger *zap.Logger) *TextFactory {
	return &TextFactory{
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger.Named("text"))
}

// CreateParser creates a new alert email parser
func (f *TextFactory) CreateParser(textProcessor *utils.TextProcessor) *mailparse.Parser {
	return mailparse.NewParser(textProcessor, f.logger.Named("parser"))
}
