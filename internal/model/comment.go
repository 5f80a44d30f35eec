package model

// CommentRecord is one comment from a flattened thread tree. ParentID is
// empty only for top-level comments; Depth is 0 at the top level and
// parent.Depth+1 below it. Records are never mutated after flattening.
type CommentRecord struct {
	ID               string `json:"id"`
	Author           string `json:"author"`
	Body             string `json:"body"`
	Score            int    `json:"score"`
	CreatedUTC       int64  `json:"created_utc"`
	ParentID         string `json:"parent_id,omitempty"`
	Depth            int    `json:"depth"`
	Permalink        string `json:"permalink"`
	IsSubmitter      bool   `json:"is_submitter"`
	Edited           bool   `json:"edited"`
	Gilded           int    `json:"gilded"`
	Controversiality int    `json:"controversiality"`

	// Subreddit is set on records coming from a user-content listing, where
	// comments span communities. Thread flattening leaves it empty.
	Subreddit string `json:"subreddit,omitempty"`
}
