// Package paths provides centralized path handling for relink.
//
// It resolves the XDG directories relink keeps its own files in and turns
// user-supplied paths into the absolute, cleaned form every other package
// compares against.
//
// # Environment Variables
//
//   - RELINK_CONFIG_DIR: Override the config directory (default: $XDG_CONFIG_HOME/relink)
//   - RELINK_STATE_DIR: Override the state directory (default: $XDG_STATE_HOME/relink)
//
// # Layout
//
//   - Config: $XDG_CONFIG_HOME/relink/config.toml
//   - State: $XDG_STATE_HOME/relink/relink.log and journals/
//   - Project: .relink.toml in the working directory
package paths
