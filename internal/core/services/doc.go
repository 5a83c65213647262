// Package services implements the core indexing pipeline: snapshot diffing,
// garbage collection of removed documents, quota enforcement, the
// chunk/dedup engines and the consistency commit against the relational and
// vector stores. All infrastructure is reached through the driven ports.
package services
