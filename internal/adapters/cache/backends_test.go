package cache

import (
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
)

// closedAddr returns a loopback address nothing listens on
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	if _, err := NewRedisCache(closedAddr(t), "", 0, zap.NewNop()); err == nil {
		t.Error("expected an error for an unreachable Redis server")
	}
}

func TestNewMySQLCache_Unreachable(t *testing.T) {
	dsn := "user:password@tcp(" + closedAddr(t) + ")/alert_report?timeout=1s"
	if _, err := NewMySQLCache(dsn, zap.NewNop(), 0); err == nil {
		t.Error("expected an error for an unreachable MySQL server")
	}
}

func TestCodec(t *testing.T) {
	entry := testEntry("a1", time.Time{})
	data, err := encodeDetail(entry.Detail)
	if err != nil {
		t.Fatalf("encodeDetail: %v", err)
	}
	detail, err := decodeDetail(data)
	if err != nil {
		t.Fatalf("decodeDetail: %v", err)
	}
	if detail.ID != "a1" || detail.Detail("cluster") != "eu-1" || *detail.Report.AckTime != 1800000 {
		t.Errorf("unexpected decoded detail: %+v", detail)
	}

	if _, err := decodeDetail([]byte("{broken")); err == nil {
		t.Error("expected a decode error")
	}

	if toUnix(time.Time{}) != 0 || !fromUnix(0).IsZero() {
		t.Error("zero time must map to 0 and back")
	}
	now := time.Unix(1700000000, 0)
	if !fromUnix(toUnix(now)).Equal(now) {
		t.Error("unix round trip changed the time")
	}
}
