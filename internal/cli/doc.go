// Package cli implements the command-line interface for teesheet-sync.
//
// The cli package provides the Cobra-based CLI that loads configuration,
// opens the configured store and tee sheet navigator, runs the weekend sync
// for one club, and reports the synced lottery wins as text or JSON.
package cli
