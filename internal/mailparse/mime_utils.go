package mailparse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

// readEntity wraps message.Read, tolerating unknown charsets and transfer
// encodings: the entity is still usable, just undecoded
func readEntity(raw []byte) (*message.Entity, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !isRecoverable(err) {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	if entity == nil {
		return nil, errors.New("failed to read message: no entity")
	}
	return entity, nil
}

func isRecoverable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

// extractPlainText returns the text/plain content of a message. For multipart
// messages every text/plain part is concatenated in encounter order; a
// single-part message yields its payload whatever its content type.
func (p *Parser) extractPlainText(raw []byte) (string, error) {
	entity, err := readEntity(raw)
	if err != nil {
		return "", err
	}

	var content strings.Builder
	if err := p.collectPlainText(entity, &content, true); err != nil {
		return "", err
	}
	return content.String(), nil
}

func (p *Parser) collectPlainText(entity *message.Entity, content *strings.Builder, top bool) error {
	if mr := entity.MultipartReader(); mr != nil {
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil && (part == nil || !isRecoverable(err)) {
				return fmt.Errorf("failed to read message part: %w", err)
			}
			if err := p.collectPlainText(part, content, false); err != nil {
				return err
			}
		}
	}

	mediaType, _, err := entity.Header.ContentType()
	if err != nil || mediaType == "" {
		// RFC 2045 default
		mediaType = "text/plain"
	}
	if !top && !strings.EqualFold(mediaType, "text/plain") {
		return nil
	}

	body, err := io.ReadAll(entity.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s body: %w", mediaType, err)
	}
	content.WriteString(p.textProcessor.DecodeUTF8(body))
	return nil
}
