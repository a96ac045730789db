// Package media classifies filenames by their media extension.
package media

import (
	"path/filepath"
	"strings"
)

// supported is the closed set of recognized media extensions:
// standard raster formats, camera RAW formats by vendor family, and
// the video containers the catalog accepts.
var supported = map[string]bool{
	// standard raster
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true,
	"tiff": true, "webp": true, "heic": true, "heif": true,
	// RAW, by vendor family: Adobe, Corel, Nikon, Olympus, Canon,
	// Panasonic, Hasselblad/Imacon, Sony, Leica, Fujifilm, Samsung
	"dng": true, "cib": true, "nef": true, "nrw": true, "orf": true,
	"oif": true, "cr2": true, "cr3": true, "craw": true, "raw": true,
	"rw2": true, "fff": true, "3pr": true, "3fr": true, "arw": true,
	"sr2": true, "srf": true, "rwl": true, "raf": true, "srw": true,
	// video containers
	"avi": true, "mp4": true, "mov": true,
}

var video = map[string]bool{
	"avi": true, "mp4": true, "mov": true,
}

// Ext returns the lowercased extension of name without the leading dot.
func Ext(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// IsSupported reports whether name has a recognized media extension.
// The check is case-insensitive: .JPG, .Jpg and .jpg are all supported.
func IsSupported(name string) bool {
	return supported[Ext(name)]
}

// IsVideo reports whether name has a recognized video container
// extension. Video files carry no capture metadata the resolver
// trusts, so they fall straight through to modification time.
func IsVideo(name string) bool {
	return video[Ext(name)]
}
