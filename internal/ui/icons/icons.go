// Package icons holds the glyphs shared by the page and its components.
package icons

const (
	IconSuccess = "✓"
	IconError   = "⚠"
	IconSelect  = "▸"
	IconBullet  = "•"
)
