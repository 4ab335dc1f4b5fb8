// Package sanitizer normalizes text that crosses the storefront boundary:
// Booking API payloads on the way in and checkout form input on the way out.
//
// All functions are idempotent and never fail. Bad input collapses to an
// empty string or is dropped from a slice; callers decide whether empty is
// acceptable.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Contact fields: trim only, the raw value is what gets validated
//   - Image URLs: trim, keep http(s), protocol-relative and rooted paths
//   - Slices: remove duplicates and empty values after normalization
//   - Numbers: clamp amounts to zero and ratings to 0..5
package sanitizer
