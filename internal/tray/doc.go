// Package tray renders the menubar presenter on fyne.io/systray.
//
// # Overview
//
// The Menu owns every piece of user-visible surface: the menubar title, the
// dropdown menu, the settings dialogs, and failure notifications. It reads
// state but owns none of it; readings live in state.Store, settings in
// prefs.Store, and the refresh loop is reached only through the OnRefresh
// and OnReschedule callbacks.
//
// # Menu Layout
//
//	Last Updated: <timestamp>          (disabled, informational)
//	Hold: x% | Sell: y% | Signal: <label>
//	Refresh Now
//	---
//	Open CoinGlass
//	Triggered Indicators               (disabled while none are triggered)
//	---
//	Settings
//	  Launch at Login                  (checkbox)
//	  Set API Key…
//	  Set Refresh Rate (N min)…
//	Show Log
//	---
//	About PeakHODLer
//	Quit
//
// # Threading
//
// systray delivers clicks on per-item channels; clickLoop serializes all of
// them onto one goroutine, so menu actions never race each other. Update is
// called from the refresher goroutine and guards its dirty-tracking state
// with a mutex; title and item writes are skipped when the rendered text
// has not changed.
//
// # Dialogs
//
// Text entry, alerts, and notifications go through zenity, which talks to
// the native dialog facility. A cancelled dialog is not an error; the
// action is simply dropped.
package tray
