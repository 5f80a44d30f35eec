package analyze

import (
	"regexp"
	"strings"
)

// Reddit-flavored markdown and noise, stripped before a comment is measured
// or sent to the model.
var (
	reBold      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic    = regexp.MustCompile(`\*(.*?)\*`)
	reStrike    = regexp.MustCompile(`~~(.*?)~~`)
	reSuper     = regexp.MustCompile(`\^(\w+)`)
	reQuote     = regexp.MustCompile(`(?m)^\s*(?:>|&gt;).*$`)
	reUser      = regexp.MustCompile(`/u/\w+`)
	reSubreddit = regexp.MustCompile(`/r/\w+`)
	reURL       = regexp.MustCompile(`https?://\S+`)
	reSpace     = regexp.MustCompile(`\s+`)
)

// CleanText normalizes comment markup for analysis: emphasis markers are
// unwrapped, quoted-reply lines dropped, mentions and URLs replaced with
// placeholder tokens, and whitespace collapsed.
func CleanText(text string) string {
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reStrike.ReplaceAllString(text, "$1")
	text = reSuper.ReplaceAllString(text, "$1")
	text = reQuote.ReplaceAllString(text, "")
	text = reUser.ReplaceAllString(text, "[USER]")
	text = reSubreddit.ReplaceAllString(text, "[SUBREDDIT]")
	text = reURL.ReplaceAllString(text, "[LINK]")
	text = reSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
