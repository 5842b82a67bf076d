// Package paths resolves where matter keeps its configuration.
//
// It wraps github.com/adrg/xdg, so the user config lives under the XDG
// config home on every platform:
//
//	paths.ConfigDir()  // ~/.config/matter on Linux
//	paths.ConfigFile() // ~/.config/matter/config.yaml
package paths
