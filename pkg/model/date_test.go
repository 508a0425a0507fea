package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2030-05-01" {
		t.Errorf("expected 2030-05-01, got %s", d)
	}
}

func TestParseDate_TrimsWhitespace(t *testing.T) {
	d, err := ParseDate("  2030-05-01 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2030-05-01" {
		t.Errorf("expected 2030-05-01, got %s", d)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	invalid := []string{"", "May 1st 2030", "2030/05/01", "01-05-2030", "2030-13-01"}
	for _, s := range invalid {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		from Date
		to   Date
		days int
	}{
		{"same day", NewDate(2030, time.May, 1), NewDate(2030, time.May, 1), 0},
		{"next day", NewDate(2030, time.May, 1), NewDate(2030, time.May, 2), 1},
		{"across month", NewDate(2030, time.April, 28), NewDate(2030, time.May, 2), 4},
		{"backwards", NewDate(2030, time.May, 5), NewDate(2030, time.May, 1), -4},
		{"across leap day", NewDate(2032, time.February, 28), NewDate(2032, time.March, 1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.DaysUntil(tt.to); got != tt.days {
				t.Errorf("DaysUntil(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.days)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	d := NewDate(2030, time.May, 30).AddDays(3)
	if d.String() != "2030-06-02" {
		t.Errorf("expected 2030-06-02, got %s", d)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
	}

	data, err := json.Marshal(payload{Start: NewDate(2030, time.May, 1)})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"start":"2030-05-01"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.Start.Equal(NewDate(2030, time.May, 1)) {
		t.Errorf("round trip lost value: %s", decoded.Start)
	}
}

func TestDateJSONNull(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte("null"), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsZero() {
		t.Error("expected zero date for null")
	}
}

func TestDateOf_NormalizesToMidnightUTC(t *testing.T) {
	d := DateOf(time.Date(2030, time.May, 1, 23, 59, 58, 0, time.UTC))
	if d.Time().Hour() != 0 || d.Time().Minute() != 0 {
		t.Errorf("expected midnight, got %s", d.Time())
	}
	if !d.Equal(NewDate(2030, time.May, 1)) {
		t.Errorf("expected 2030-05-01, got %s", d)
	}
}
