// Package exifdata reads capture metadata from media files.
package exifdata

import (
	exif "github.com/dsoprea/go-exif/v3"
)

//go:generate mockgen -source=reader.go -destination=mocks/reader.go -package=mocks

// Capture holds the raw capture fields read from a file's embedded
// metadata. Empty strings mean the field is absent.
type Capture struct {
	// DateTimeOriginal is the original capture time as written by the
	// camera, e.g. "2023:07:15 14:30:00". Some firmware uses dashes in
	// the date portion instead of colons.
	DateTimeOriginal string

	// OffsetTimeOriginal is the UTC offset of the capture time,
	// e.g. "-04:00". Cameras frequently omit it or write it partially
	// blank.
	OffsetTimeOriginal string
}

// Reader extracts capture metadata from a file. Implementations never
// fail: unsupported, unreadable, or corrupt files yield an absent
// Capture instead of an error.
type Reader interface {
	Extract(path string) Capture
}

// ExifReader reads EXIF metadata with go-exif, looking tags up by name
// so vendor-specific and EXIF 2.31 fields like OffsetTimeOriginal are
// reachable.
type ExifReader struct{}

// NewReader returns a Reader backed by go-exif.
func NewReader() *ExifReader {
	return &ExifReader{}
}

// Extract returns the capture fields found in the file's EXIF block,
// or an absent Capture if the file has none or cannot be parsed.
func (r *ExifReader) Extract(path string) (c Capture) {
	// go-exif can panic on malformed maker notes; treat that the same
	// as absent metadata.
	defer func() {
		if recover() != nil {
			c = Capture{}
		}
	}()

	raw, err := exif.SearchFileAndExtractExif(path)
	if err != nil {
		return Capture{}
	}

	tags, _, err := exif.GetFlatExifData(raw, &exif.ScanOptions{})
	if err != nil {
		return Capture{}
	}

	for _, tag := range tags {
		value, ok := tag.Value.(string)
		if !ok {
			continue
		}
		switch tag.TagName {
		case "DateTimeOriginal":
			if c.DateTimeOriginal == "" {
				c.DateTimeOriginal = value
			}
		case "OffsetTimeOriginal":
			if c.OffsetTimeOriginal == "" {
				c.OffsetTimeOriginal = value
			}
		}
	}
	return c
}
