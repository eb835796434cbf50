// Package database stores fetch history in SQLite.
//
// Every saved fetch keeps the response metadata, the resolved encoding and
// the links extracted from the page, so results of different runs can be
// compared. The database is a single file in the XDG
// data directory, opened through the CGO-free modernc.org/sqlite driver.
package database
