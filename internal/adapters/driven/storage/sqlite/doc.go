// Package sqlite keeps the history of compare and locate runs in
// ~/.proofcheck/data/history.db, using the pure Go modernc.org/sqlite driver.
//
// A run is one row in runs. Compare runs add one page_results row per
// compared page and locate runs one rule_results row per rule; both child
// tables cascade on delete.
//
// Schema changes live in migrations/ as NNN_name.up.sql files. Opening the
// store applies the missing ones in order and refuses a database whose
// recorded version is ahead of the binary.
package sqlite
