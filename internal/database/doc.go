// Package database provides SQLite-based storage of check history.
//
// Program chairs check submissions several times: once at the abstract
// deadline, once at the paper deadline and again after authors fix desk
// rejection warnings. ResultDB keeps every check run so that the history
// command can show which issues a revision introduced or resolved.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
