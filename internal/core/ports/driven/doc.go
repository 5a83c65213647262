// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The indexing service talks to every stateful
// system (connectors, relational store, vector store, enrichment APIs,
// progress stream) exclusively through these interfaces.
package driven
