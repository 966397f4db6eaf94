// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens SQLite databases for the console's local
// state with a fixed set of pragmas and a forward-only schema
// migration list.
//
// It is a thin layer over zombiezen.com/go/sqlite: callers [Pool.Take]
// a connection, write SQL with sqlitex, and [Pool.Put] it back.
// Connections are not safe for concurrent use.
//
// Every connection runs with journal_mode=WAL, synchronous=NORMAL,
// busy_timeout=5000, foreign_keys=ON and temp_store=MEMORY.
//
// # Migrations
//
// [Config].Migrations is an ordered list of SQL scripts. The database's
// user_version records how many have been applied; Open runs the rest,
// each in its own immediate transaction. Entries are never edited or
// removed once released, only appended.
package sqlitepool
