// Package storage keeps a local JSON archive of processed tee sheet days.
//
// Each processed day is written to <data-dir>/<club-id>/teesheet_<date>.json
// with the parsed slots and the wins matched from them. The archive is an
// operator convenience next to the database audit trail; the engine never
// reads it back during a run. The default location is
// ~/.local/share/teesheet-sync/.
package storage
