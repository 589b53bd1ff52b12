package coinglass

import (
	"testing"
	"time"
)

func TestSentiment(t *testing.T) {
	tests := []struct {
		name    string
		sellPct float64
		want    string
	}{
		{"zero", 0, "Unwavering"},
		{"just under first boundary", 9.9, "Unwavering"},
		{"first boundary", 10, "Confident"},
		{"mid scale", 45, "Neutral"},
		{"fractional between bands", 49.5, "Neutral"},
		{"upper band", 85, "Urgent"},
		{"top boundary", 90, "Liquidate"},
		{"full", 100, "Liquidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, label := sentiment(tt.sellPct)
			if label != tt.want {
				t.Errorf("sentiment(%v) = %q, want %q", tt.sellPct, label, tt.want)
			}
		})
	}
}

func TestSummarize_EmptyData(t *testing.T) {
	now := time.Now()
	r := summarize(nil, now)

	if !r.OK() {
		t.Fatalf("Status = %q, want %q", r.Status, StatusOK)
	}
	if r.SellPct != 0 || r.HoldPct != 100 {
		t.Errorf("SellPct = %v, HoldPct = %v, want 0 and 100", r.SellPct, r.HoldPct)
	}
	if r.Label != "Unwavering" {
		t.Errorf("Label = %q, want Unwavering", r.Label)
	}
	if len(r.Triggered) != 0 {
		t.Errorf("Triggered = %v, want empty", r.Triggered)
	}
	if !r.FetchedAt.Equal(now) {
		t.Errorf("FetchedAt = %v, want %v", r.FetchedAt, now)
	}
}

func TestSummarize_CountsTriggeredIndicators(t *testing.T) {
	truth := true
	lie := false
	hitMS := int64(1735725600000) // 2025-01-01 10:00:00 UTC

	items := []apiIndicator{
		{Name: "Pi Cycle Top", HitStatus: &truth, HitTime: &hitMS},
		{Name: "Puell Multiple", HitStatus: &lie},
		{Name: "MVRV Z-Score", Hit: &truth}, // legacy field name
		{Name: "RHODL Ratio"},
	}

	r := summarize(items, time.Now())

	if got, want := len(r.Triggered), 2; got != want {
		t.Fatalf("len(Triggered) = %d, want %d", got, want)
	}
	if r.SellPct != 50 || r.HoldPct != 50 {
		t.Errorf("SellPct = %v, HoldPct = %v, want 50 and 50", r.SellPct, r.HoldPct)
	}
	if r.Label != "Caution" {
		t.Errorf("Label = %q, want Caution", r.Label)
	}

	first := r.Triggered[0]
	if first.Name != "Pi Cycle Top" {
		t.Errorf("Triggered[0].Name = %q, want Pi Cycle Top", first.Name)
	}
	if want := time.UnixMilli(hitMS); !first.HitAt.Equal(want) {
		t.Errorf("Triggered[0].HitAt = %v, want %v", first.HitAt, want)
	}
	if !r.Triggered[1].HitAt.IsZero() {
		t.Errorf("Triggered[1].HitAt = %v, want zero", r.Triggered[1].HitAt)
	}
}

func TestSummarize_UnnamedIndicator(t *testing.T) {
	truth := true
	r := summarize([]apiIndicator{{HitStatus: &truth}}, time.Now())

	if len(r.Triggered) != 1 {
		t.Fatalf("len(Triggered) = %d, want 1", len(r.Triggered))
	}
	if r.Triggered[0].Name != "Unknown Indicator" {
		t.Errorf("Name = %q, want Unknown Indicator", r.Triggered[0].Name)
	}
}

func TestTriggered_HitStatusWinsOverHit(t *testing.T) {
	truth := true
	lie := false

	// hit_status is authoritative when both fields are present
	item := apiIndicator{HitStatus: &lie, Hit: &truth}
	if item.triggered() {
		t.Error("triggered() = true, want false when hit_status is false")
	}
}
