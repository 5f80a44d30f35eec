package model

// DeletedAuthor is the sentinel used when the platform reports no author
// (account deleted or suspended).
const DeletedAuthor = "[deleted]"

// ThreadSummary is a single submission as returned by a listing, search, or
// scan. Immutable once fetched.
type ThreadSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  int64   `json:"created_utc"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	SelfText    string  `json:"selftext"`
	IsSelf      bool    `json:"is_self"`
	Subreddit   string  `json:"subreddit"`
	Flair       string  `json:"flair,omitempty"`

	// Extended fields, populated by the filtering scan path.
	Domain   string `json:"domain,omitempty"`
	Over18   bool   `json:"over_18,omitempty"`
	Spoiler  bool   `json:"spoiler,omitempty"`
	Stickied bool   `json:"stickied,omitempty"`
}
