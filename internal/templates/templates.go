// Package templates holds embedded file templates shipped with lstash.
package templates

import "embed"

//go:embed config.toml
var files embed.FS

// Read returns the contents of the named template.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
