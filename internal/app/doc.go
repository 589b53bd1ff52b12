// Package app provides the orchestration layer for PeakHODLer.
//
// # Overview
//
// This package wires together logging, preferences, the CoinGlass client,
// the shared reading store, the refresh loop, and the menubar presenter.
// It is the composition root where all dependencies are initialized and
// connected.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Open the rotating log file under ~/Library/Logs/peakhodler
//  2. Load user preferences from ~/.config/peakhodler/prefs.toml
//  3. Build the CoinGlass HTTP client
//  4. Create the shared state.Store for presenter and refresher coordination
//  5. Launch the background Refresher goroutine and kick an initial poll
//  6. Start the menubar loop and block until quit or context cancellation
//
// # Refresh Behavior
//
// The Refresher owns a single goroutine that serially consumes timer ticks,
// manual Refresh Now requests, and interval reschedules. Serial consumption
// is what guarantees the "never two polls in flight" requirement: a manual
// request during an in-flight poll lands in a capacity-one channel and runs
// after the current poll completes; further requests are dropped.
//
// Each poll reads the API key from preferences at poll time, so a key
// change takes effect on the very next request without restarting anything.
//
// # Error Handling
//
// Fatal errors (returned from Run): log directory or preferences path
// cannot be resolved, client base URL invalid.
//
// Recoverable errors (logged, loop continues): every fetch failure. A
// failed poll replaces the current reading with an error reading; the
// presenter renders a degraded label. Failed polls are not retried; the
// next scheduled tick or a manual refresh is the recovery path.
package app
