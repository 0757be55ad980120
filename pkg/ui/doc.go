// Package ui renders relink results for people and machines.
//
// Commands hand their results to a Renderer chosen by NewRenderer. Results
// are first converted to display views (package display) so that the
// terminal, text and JSON renderers all show the same facts:
//
//   - terminal: lipgloss styles from the style registry plus pterm tables
//   - text: the same content without any escape codes
//   - json: the display views encoded as JSON
//
// FormatAuto picks terminal output only when stdout is a terminal and
// NO_COLOR is unset.
package ui
