package sentiment

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// RemoveLinks strips markdown links (keeping their display text) and bare
// URLs. Pasted dashboard entries are full of links that only distort lexicon
// scores.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return bareURLPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown through blackfriday, drops the
// resulting HTML tags and links, and collapses whitespace, so text-inspecting
// engines score the words a reader sees rather than the markup.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := htmlTagPattern.ReplaceAllString(string(output), " ")

	return strings.Join(strings.Fields(RemoveLinks(stripped)), " ")
}
