package trips

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SanitizeName makes a trip name safe to use as a directory name: path
// separators become underscores and the result is NFC-normalized so
// the same name always maps to the same directory regardless of how it
// was typed into the config.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.TrimSpace(name)
	return norm.NFC.String(name)
}
