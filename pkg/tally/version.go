// Package tally exposes release metadata for the tally module.
package tally

// Version is the current release version.
const Version = "v0.1.0"
