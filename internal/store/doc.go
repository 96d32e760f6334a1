// Package store provides durable persistence for OAuth credentials.
//
// Two backends implement the Store interface:
//
//   - FileStore: a single JSON document on disk, for single-operator
//     deployments. The user id is ignored; there is one global record.
//   - SQLStore: a Postgres table keyed by user id, for deployments with
//     concurrent distinct users.
//
// Both backends replace the whole record on every save and treat read or
// deserialization failures of the backing medium as "no data".
package store
