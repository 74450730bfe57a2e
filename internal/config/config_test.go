package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseThresholds(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"90,180,365", []int{90, 180, 365}, false},
		{" 90 , 180 ", []int{90, 180}, false},
		{"90,,180", []int{90, 180}, false},
		{"90,abc", nil, true},
		{"0", nil, true},
		{"-30", nil, true},
	}
	for _, tt := range tests {
		got, err := parseThresholds(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseThresholds(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseThresholds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseReferenceDate(t *testing.T) {
	got, err := parseReferenceDate("2025-06-01")
	if err != nil {
		t.Fatalf("parseReferenceDate: %v", err)
	}
	if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if zero, err := parseReferenceDate(""); err != nil || !zero.IsZero() {
		t.Errorf("empty value should mean zero time, got %v, %v", zero, err)
	}

	if _, err := parseReferenceDate("06/01/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
