// Package store persists ordered template collections.
//
// The Store interface uses whole-collection semantics: templates are loaded
// once at startup and saved back after edits, matching how an interactive
// editor owns the live collection. FileStore is the default JSON-file
// implementation; integration/store/redis and integration/store/postgres
// provide server-backed alternatives with the same contract.
package store
