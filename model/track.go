package model

import (
	"regexp"
	"strings"
)

// Track represents one uploaded audio file in the music library.
// FileLocation is an opaque reference resolved by the storage provider
// that wrote it.
type Track struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	FileLocation string `json:"fileLocation"`
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Slugify derives a track's lookup key from its title: lowercased, with
// every maximal run of whitespace collapsed to a single hyphen. Titles
// that differ only in spacing map to the same slug.
func Slugify(title string) string {
	return whitespaceRuns.ReplaceAllString(strings.ToLower(title), "-")
}
