// Package classify picks the dominant change type of each staged file from
// its extracted signals.
package classify
