// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections and schema creation.

# Connections

Open accepts either database type:

	conn, err := db.Open(db.TypeSQLite, "file:evote.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

sqlite connections get foreign_keys and busy_timeout pragmas appended to the
DSN and are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: title, description, voting window
  - position: offices contested in an election
  - candidate: people standing for a position
  - ballot: one encoded choice per voter token per election

# Relationships

	election 1──* position 1──* candidate
	election 1──* ballot

All foreign keys use ON DELETE CASCADE. ballot.encoded_choice is not a
foreign key: it is the sealed candidate id produced by the ballot package.

# Constraint Errors

IsUniqueViolation recognizes duplicate-key errors from lib/pq (SQLSTATE 23505)
and modernc sqlite (SQLITE_CONSTRAINT_UNIQUE), so callers can treat a lost
insert race as an ordinary outcome.
*/
package db
