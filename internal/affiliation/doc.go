// Package affiliation resolves tee sheet names to club affiliates.
//
// A Directory maps a normalized name (the identity) to the group the
// affiliate plays for, and to either the registered user or the pending
// invitation behind that name. Directories are built once per run from the
// current membership and invitation rows and are never mutated afterwards.
//
// Precedence rules:
//   - a primary membership overwrites whatever is recorded for its identity,
//     so when two primary memberships share an identity the last one in
//     storage iteration order wins
//   - a non-primary membership only fills an empty identity
//   - a pending invitation only fills an identity that no membership or
//     earlier invitation claimed
package affiliation
