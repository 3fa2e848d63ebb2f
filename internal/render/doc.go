// Package render prints plans and apply reports for people (a table with
// coloured warnings) and for tools (JSON).
package render
