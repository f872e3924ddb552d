package cache

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mikey/alert-report/internal/core"
)

// encodeDetail serializes an alert detail for the persistent backends
func encodeDetail(detail *core.AlertDetail) ([]byte, error) {
	data, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("failed to encode alert detail: %w", err)
	}
	return data, nil
}

// decodeDetail deserializes an alert detail stored by encodeDetail
func decodeDetail(data []byte) (*core.AlertDetail, error) {
	var detail core.AlertDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode alert detail: %w", err)
	}
	return &detail, nil
}

// toUnix stores a zero time as 0, meaning "never expires"
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
