// Package formats provides parsers for World of Warcraft file formats.
package formats

// Note: WMO root and group files are implemented in wmo.go and wmo_group.go
// Note: BLP2 textures are implemented in blp.go
