// Package git reads the staged changes of a repository and records commits.
//
// Repo shells out to the git binary and is what the CLI uses by default.
// NativeReader reads the index and HEAD through go-git, so a staged set can
// be analyzed where no git binary is installed.
package git
