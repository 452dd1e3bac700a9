// Package database provides SQLite-based storage of extraction runs.
//
// Every saved run keeps the report path, the SHA-256 of the input bytes
// and the extracted records in document order, so that later runs over the
// same report can be listed and compared.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. The history is a single file under the XDG data directory
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode keeps reads cheap while a batch run is saving
package database
