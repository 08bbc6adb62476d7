// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package catalog stores elections, positions, and candidates, the reference
// data that ballots are cast against. Lookups of missing rows return ErrNotFound.
package catalog
