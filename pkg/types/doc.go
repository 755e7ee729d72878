// Package types defines the command-channel contract, entity types,
// configuration, and standard errors shared by the tally scoreboard core.
package types
