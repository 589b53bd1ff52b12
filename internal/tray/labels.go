package tray

import (
	"fmt"

	"github.com/dwightmulcahy/PeakHODLer/internal/coinglass"
	"github.com/dwightmulcahy/PeakHODLer/internal/state"
)

const (
	loadingTitle     = "📊 Loading…"
	missingKeyTitle  = "🔑 API key?"
	rateLimitedTitle = "⏳ Rate limited"
	errorTitle       = "🔴 Error"

	timestampLayout = "2006-01-02 15:04:05"
	hitTimeLayout   = "Jan 02 15:04"
)

// Title renders the menubar title for a snapshot.
func Title(snap state.Snapshot) string {
	if !snap.HasReading {
		return loadingTitle
	}
	switch r := snap.Reading; r.Status {
	case coinglass.StatusOK:
		return r.Emoji + " " + r.Label
	case coinglass.StatusMissingKey, coinglass.StatusUnauthorized:
		return missingKeyTitle
	case coinglass.StatusRateLimited:
		return rateLimitedTitle
	default:
		return errorTitle
	}
}

// Summary renders the Hold/Sell/Signal dropdown line from the last good
// reading, surviving transient failures.
func Summary(snap state.Snapshot) string {
	if !snap.HasGood {
		return "Not updated yet"
	}
	g := snap.LastGood
	return fmt.Sprintf("Hold: %.1f%% | Sell: %.1f%% | Signal: %s", g.HoldPct, g.SellPct, g.Label)
}

// LastUpdated renders the freshness dropdown line.
func LastUpdated(snap state.Snapshot) string {
	if !snap.HasReading {
		return "Last Updated: never"
	}
	return "Last Updated: " + snap.Reading.FetchedAt.Format(timestampLayout)
}

// FormatIndicator renders one triggered indicator for the indicator list.
func FormatIndicator(ind coinglass.Indicator) string {
	if ind.HitAt.IsZero() {
		return "✔ " + ind.Name
	}
	return fmt.Sprintf("✔ %s @ %s", ind.Name, ind.HitAt.Format(hitTimeLayout))
}

func refreshRateTitle(minutes int) string {
	return fmt.Sprintf("Set Refresh Rate (%d min)…", minutes)
}
