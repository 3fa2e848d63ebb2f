// Package pipeline runs the staged-change engine end to end: snapshot,
// feature extraction, classification, partitioning and message composition.
// It produces a Plan without side effects; Apply turns a plan into commits
// through a Committer.
package pipeline
