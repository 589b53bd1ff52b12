// Package coinglass provides an HTTP client for the CoinGlass open API's
// bull-market peak indicator endpoint.
//
// # Overview
//
// The package issues a single authenticated GET to
// /api/bull-market-peak-indicator and reduces the returned indicator list to
// a Reading: the share of indicators currently triggered (sell percentage),
// its complement (hold percentage), a sentiment label, and the list of
// triggered indicators with their hit times.
//
// # Status Mapping
//
// Every poll outcome maps to exactly one Status:
//
//   - StatusMissingKey: no API key configured; no request is issued
//   - StatusOK: HTTP 200 with an api-level code of 200
//   - StatusUnauthorized: HTTP 401 or 403
//   - StatusRateLimited: HTTP 429
//   - StatusNetworkError: dial, DNS, or timeout failure
//   - StatusUnknown: any other HTTP status, an undecodable body, or an
//     api-level error code
//
// The Reading for a failed poll carries a human-readable Detail and no
// indicator data. The client never retries; recovery is driven by the next
// scheduled tick or a manual refresh.
//
// # Sentiment Scale
//
// The sell percentage maps to a ten-step label scale, from "Unwavering"
// (under 10% of indicators triggered) up to "Liquidate" (90% or more). The
// paired emoji is what ends up in the menubar title.
//
// # Payload Tolerance
//
// The API has returned its code field as both a string and a number, and
// older payloads flag triggered indicators with "hit" instead of
// "hit_status". Both variants are accepted. Hit times are Unix milliseconds.
//
// # Testing
//
// NewClient accepts a base URL override so tests can point the client at an
// httptest.Server. The IndicatorFetcher interface lets the refresh loop be
// exercised with a fake client.
package coinglass
