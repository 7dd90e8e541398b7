// Package redis provides a Redis-backed template store.
//
// The collection lives in two keys under a configurable prefix: a list of
// template IDs preserving collection order, and a hash mapping ID to the
// template's JSON encoding. Save rewrites both transactionally, keeping the
// whole-collection semantics of the store contract.
//
// Connectivity is verified with a ping at construction so a misconfigured
// URL fails at startup, not at the first save.
package redis
