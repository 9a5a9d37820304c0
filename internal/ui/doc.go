// Package ui renders documents and command results for the confdoc CLI.
//
// The components are "render once and print" values built on Lipgloss:
//
//   - Header: banner with the document source and parameters
//   - Result: success, failure or warning box; failure boxes list the
//     document's accumulated error messages
//   - RenderTree: the document as a colored tree
//   - RenderLabels: the label table, rendered with go-pretty
//
// # Color
//
// Colors follow the terminal profile. SetColorEnabled(false) switches both
// Lipgloss and go-pretty to plain text, which the CLI does for --no-color
// and when stdout is not a terminal.
//
// # Logging Integration
//
// Logging is controlled by the CONFDOC_LOG_LEVEL environment variable. When
// unset, zap logging is silent so that only the rendered output appears.
package ui
