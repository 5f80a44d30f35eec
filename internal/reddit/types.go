package reddit

import (
	"bytes"
	"encoding/json"

	"github.com/threadlens/threadlens/internal/model"
)

const permalinkBase = "https://reddit.com"

// thing is the generic wire envelope: a kind tag ("Listing", "t1" comment,
// "t3" link, "more") and a kind-specific payload.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []thing `json:"children"`
}

type linkData struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Score         int     `json:"score"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	NumComments   int     `json:"num_comments"`
	CreatedUTC    float64 `json:"created_utc"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	Selftext      string  `json:"selftext"`
	IsSelf        bool    `json:"is_self"`
	Subreddit     string  `json:"subreddit"`
	LinkFlairText *string `json:"link_flair_text"`
	Domain        string  `json:"domain"`
	Over18        bool    `json:"over_18"`
	Spoiler       bool    `json:"spoiler"`
	Stickied      bool    `json:"stickied"`
}

func (d linkData) summary() model.ThreadSummary {
	author := d.Author
	if author == "" {
		author = model.DeletedAuthor
	}
	flair := ""
	if d.LinkFlairText != nil {
		flair = *d.LinkFlairText
	}
	return model.ThreadSummary{
		ID:          d.ID,
		Title:       d.Title,
		Author:      author,
		Score:       d.Score,
		UpvoteRatio: d.UpvoteRatio,
		NumComments: d.NumComments,
		CreatedUTC:  int64(d.CreatedUTC),
		URL:         d.URL,
		Permalink:   permalinkBase + d.Permalink,
		SelfText:    d.Selftext,
		IsSelf:      d.IsSelf,
		Subreddit:   d.Subreddit,
		Flair:       flair,
		Domain:      d.Domain,
		Over18:      d.Over18,
		Spoiler:     d.Spoiler,
		Stickied:    d.Stickied,
	}
}

type commentData struct {
	ID               string          `json:"id"`
	Author           string          `json:"author"`
	Body             string          `json:"body"`
	Score            int             `json:"score"`
	CreatedUTC       float64         `json:"created_utc"`
	ParentID         string          `json:"parent_id"`
	Permalink        string          `json:"permalink"`
	IsSubmitter      bool            `json:"is_submitter"`
	Edited           editedFlag      `json:"edited"`
	Gilded           int             `json:"gilded"`
	Controversiality int             `json:"controversiality"`
	Subreddit        string          `json:"subreddit"`
	Replies          json.RawMessage `json:"replies"`
}

type moreData struct {
	Children []string `json:"children"`
}

// editedFlag tolerates the wire quirk where edited is either false or an
// edit timestamp.
type editedFlag bool

func (e *editedFlag) UnmarshalJSON(b []byte) error {
	*e = editedFlag(!bytes.Equal(b, []byte("false")) && !bytes.Equal(b, []byte("null")))
	return nil
}

// hasListing reports whether a replies payload is a real listing rather than
// the empty-string placeholder used for leaf comments.
func hasListing(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '{'
}

func unmarshalData(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}
