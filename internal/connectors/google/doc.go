// Package google provides shared plumbing for Google API connectors:
// credential handling and client-side rate limiting.
package google
