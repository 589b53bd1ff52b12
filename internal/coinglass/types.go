package coinglass

import (
	"encoding/json"
	"time"
)

// Status classifies the outcome of a single poll.
type Status string

const (
	StatusOK           Status = "ok"
	StatusMissingKey   Status = "missing_key"
	StatusUnauthorized Status = "unauthorized"
	StatusRateLimited  Status = "rate_limited"
	StatusNetworkError Status = "network_error"
	StatusUnknown      Status = "unknown"
)

// Indicator is one market-peak indicator that has triggered.
type Indicator struct {
	Name  string
	HitAt time.Time // zero when the API omitted the hit time
}

// Reading is the summary derived from one poll of the indicator endpoint.
// It is replaced wholesale on every poll, successful or not.
type Reading struct {
	Status    Status
	Emoji     string // emoji paired with Label
	Label     string // sentiment label, e.g. "Neutral"
	SellPct   float64
	HoldPct   float64
	Triggered []Indicator
	FetchedAt time.Time
	Detail    string // human-readable failure detail for non-OK statuses
}

// OK reports whether the reading carries usable indicator data.
func (r Reading) OK() bool {
	return r.Status == StatusOK
}

// apiResponse mirrors the bull-market-peak-indicator payload. The API has
// been observed returning code as both a JSON string and a number.
type apiResponse struct {
	Code json.Number    `json:"code"`
	Msg  string         `json:"msg"`
	Data []apiIndicator `json:"data"`
}

// apiIndicator is one indicator row. Older payloads use "hit" instead of
// "hit_status"; hit_time is Unix milliseconds.
type apiIndicator struct {
	Name      string `json:"name"`
	HitStatus *bool  `json:"hit_status"`
	Hit       *bool  `json:"hit"`
	HitTime   *int64 `json:"hit_time"`
}

func (i apiIndicator) triggered() bool {
	if i.HitStatus != nil {
		return *i.HitStatus
	}
	if i.Hit != nil {
		return *i.Hit
	}
	return false
}

// sentimentScale maps sell-percentage bands to display labels, mildest
// first. Each band covers [previous max, max).
var sentimentScale = []struct {
	max   float64
	emoji string
	label string
}{
	{10, "💎", "Unwavering"},
	{20, "🛡️", "Confident"},
	{30, "📈", "Watchful"},
	{40, "🐂", "Cautious"},
	{50, "⚖️", "Neutral"},
	{60, "⚠️", "Caution"},
	{70, "🧯", "Mitigate"},
	{80, "🏃", "Divest"},
	{90, "🔥", "Urgent"},
}

// sentiment returns the emoji and label for a sell percentage.
func sentiment(sellPct float64) (emoji, label string) {
	for _, band := range sentimentScale {
		if sellPct < band.max {
			return band.emoji, band.label
		}
	}
	return "🚨", "Liquidate"
}

// summarize derives an OK reading from the indicator rows.
func summarize(items []apiIndicator, now time.Time) Reading {
	var triggered []Indicator
	for _, item := range items {
		if !item.triggered() {
			continue
		}
		ind := Indicator{Name: item.Name}
		if ind.Name == "" {
			ind.Name = "Unknown Indicator"
		}
		if item.HitTime != nil && *item.HitTime > 0 {
			ind.HitAt = time.UnixMilli(*item.HitTime)
		}
		triggered = append(triggered, ind)
	}

	sellPct := 0.0
	if len(items) > 0 {
		sellPct = float64(len(triggered)) / float64(len(items)) * 100
	}
	emoji, label := sentiment(sellPct)

	return Reading{
		Status:    StatusOK,
		Emoji:     emoji,
		Label:     label,
		SellPct:   sellPct,
		HoldPct:   100 - sellPct,
		Triggered: triggered,
		FetchedAt: now,
	}
}
