// Package video extracts YouTube video IDs and normalises transcript text.
package video

import (
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:[^/]+/.*/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// ExtractID returns the 11 character ID of the video referenced by url.
func ExtractID(url string) (id string, ok bool) {
	m := idPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var (
	// Word characters and whitespace are matched in the Unicode sense.
	speakerLabel   = regexp.MustCompile(`(?m)^[\p{L}\p{N}_]+:[\s\v\p{Z}\x{85}]*`)
	whitespace     = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)
	disallowed     = regexp.MustCompile(`[^a-zA-Z0-9.,!?'" ]`)
	repeatedPeriod = regexp.MustCompile(`\.{2,}`)
)

// CleanText removes speaker labels, unusual characters and repeated
// punctuation from a transcript.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = speakerLabel.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, "")
	text = repeatedPeriod.ReplaceAllString(text, ".")
	return strings.TrimSpace(text)
}
