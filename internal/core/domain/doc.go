// Package domain contains the core business entities for the indexing
// pipeline. It has no dependencies on infrastructure packages; adapters
// translate these types to and from their own representations.
package domain
