// Package ledger persists the history of every card ever scanned in SQLite.
//
// The ledger is the operator's discovery tool: cards that have been waved at
// the reader but carry no asset mapping show up here so they can be mapped
// from the management surface. Records are upserted on every scan and never
// deleted automatically, and the database survives daemon restarts.
//
// Schema changes bump the version in schema.go; operators clear the database
// to adopt a new schema.
package ledger
