package core

import (
	"testing"
	"time"
)

func TestCanonicalTimestamp(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"2024-01-01T10:00:00Z", "2024-01-01T10:00:00.000000+00:00", true},
		{"2024-01-01T10:00:00.5+02:00", "2024-01-01T10:00:00.500000+02:00", true},
		{"2024-01-01T10:00:00.123456789Z", "2024-01-01T10:00:00.123456+00:00", true},
		{"2024-01-01T10:00:00.25-05:00", "2024-01-01T10:00:00.250000-05:00", true},
		{"2024-01-01T10:00:00", "2024-01-01T10:00:00.000000", true},
		{" 2024-01-01T10:00:00.1Z ", "2024-01-01T10:00:00.100000+00:00", true},
		{"2024-01-01 10:00:00", "", false},
		{"", "", false},
		{"2024-01-01T10:00:00TZ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CanonicalTimestamp(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CanonicalTimestamp(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CanonicalTimestamp(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	zulu, ok := NormalizeTimestamp("2024-01-01T10:00:00Z")
	if !ok {
		t.Fatal("expected Z timestamp to parse")
	}
	expanded, ok := NormalizeTimestamp("2024-01-01T10:00:00.000000+00:00")
	if !ok {
		t.Fatal("expected expanded timestamp to parse")
	}
	if !zulu.Equal(expanded) {
		t.Errorf("Z form %v != expanded form %v", zulu, expanded)
	}

	offset, ok := NormalizeTimestamp("2024-01-01T12:00:00.5+02:00")
	if !ok {
		t.Fatal("expected offset timestamp to parse")
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 500000000, time.UTC)
	if !offset.Equal(want) {
		t.Errorf("offset timestamp = %v, want %v", offset, want)
	}

	negative, ok := NormalizeTimestamp("2024-01-01T05:00:00-05:00")
	if !ok {
		t.Fatal("expected negative offset timestamp to parse")
	}
	if !negative.Equal(zulu) {
		t.Errorf("negative offset timestamp = %v, want %v", negative, zulu)
	}

	naive, ok := NormalizeTimestamp("2024-01-01T10:00:00")
	if !ok {
		t.Fatal("expected zone-less timestamp to parse")
	}
	if !naive.Equal(zulu) {
		t.Errorf("zone-less timestamp = %v, want it read as UTC", naive)
	}

	for _, bad := range []string{"not a timestamp", "2024-13-01T10:00:00Z", "2024-01-01T25:00:00Z", "2024-01-01T10:00:00+0200"} {
		if _, ok := NormalizeTimestamp(bad); ok {
			t.Errorf("NormalizeTimestamp(%q) succeeded, want failure", bad)
		}
	}
}
