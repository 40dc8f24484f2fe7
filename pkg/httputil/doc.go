// Package httputil provides HTTP utilities for fetching remote input data.
//
// # Overview
//
// This package provides infrastructure for pulling feature collections and
// validation events from web endpoints (GIS servers, shared drives, survey
// platforms):
//
//   - [Client]: HTTP fetcher with response caching and retry
//   - [Cache]: File-based response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores responses in the filesystem (~/.cache/actornet/http/)
// with configurable TTL, so repeated analyses of the same remote source
// do not hammer the server.
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures.
// Only errors wrapped with [RetryableError] are retried; the client marks
// network errors and 5xx responses as retryable, while 4xx responses fail
// immediately.
package httputil
