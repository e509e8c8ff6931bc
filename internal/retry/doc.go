// Package retry provides bounded retry with exponential backoff for
// transient database failures.
//
// The loader uses it only while establishing the initial connection, where
// "connection refused" usually means the bundled container is still starting.
// Errors during schema assurance or row loading are never retried.
package retry
