// Package bitbaby records crypto trades in a small ledger and derives the
// tiered fees earned on each of them.
//
// The core functionalities include:
//   - Numeric normalization: loosely typed amounts ("1,234.5", " 50 ") are
//     parsed into exact Cents, never floating point values.
//   - Fee computation: each row amount yields three fee tiers (2%, 1% and
//     0.5%), each rounded to the cent on its own.
//   - Aggregation: fee tiers are summed over all rows into the ledger totals.
//   - Persistence: the ledger is stored as a single JSON object under one key
//     of a Store, read back leniently so that older data keeps loading.
//   - Exports: CSV, and a read-only Snapshot handed to a Rasterizer to
//     produce an image.
//
// A Session owns the ledger while it is edited and auto-saves it, debounced.
//
// This package serves as the foundational logic for the `bb` command-line tool.
package bitbaby
