// Package diffmodel normalizes staged file data into an immutable snapshot of
// ChangedFile values. It also parses unified diff text, as printed by
// `git diff --staged`, into the Record form that collaborators hand over.
package diffmodel
