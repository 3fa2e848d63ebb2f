// Package cli defines the Cobra command tree for the commitx CLI. Each file
// registers one top-level command (commit, plan, rules, config, version) with
// the root command. Commands read the staged changes through internal/git,
// hand them to the pipeline engine and print the results with internal/render.
package cli
