package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/model"
)

// User-content kinds.
const (
	UserComments    = "comments"
	UserSubmissions = "submissions"
	UserBoth        = "both"
)

// UserContent holds a user's recent activity.
type UserContent struct {
	Comments    []model.CommentRecord `json:"comments,omitempty"`
	Submissions []model.ThreadSummary `json:"submissions,omitempty"`
}

// User retrieves up to limit recent comments and/or submissions for a
// username. One pacer wait precedes each listing call and another fires
// every tenth converted item. Remote failures are logged and produce an
// empty (or partial) result.
func (c *Client) User(ctx context.Context, username, kind string, limit int) UserContent {
	if limit <= 0 {
		limit = 100
	}

	var content UserContent

	if kind == UserComments || kind == UserBoth {
		content.Comments = c.userComments(ctx, username, limit)
	}
	if kind == UserSubmissions || kind == UserBoth {
		content.Submissions = c.userSubmissions(ctx, username, limit)
	}

	return content
}

func (c *Client) userComments(ctx context.Context, username string, limit int) []model.CommentRecord {
	children, ok := c.userListing(ctx, fmt.Sprintf("/user/%s/comments", username), limit)
	if !ok {
		return nil
	}

	var out []model.CommentRecord
	for i, child := range children {
		if child.Kind != "t1" {
			continue
		}
		if i > 0 && i%paceEvery == 0 {
			if err := c.pacer.Wait(ctx); err != nil {
				return out
			}
		}
		var data commentData
		if err := unmarshalData(child.Data, &data); err != nil {
			zap.L().Warn("skipping malformed user comment", zap.Error(err))
			continue
		}
		author := data.Author
		if author == "" {
			author = model.DeletedAuthor
		}
		out = append(out, model.CommentRecord{
			ID:          data.ID,
			Author:      author,
			Body:        data.Body,
			Score:       data.Score,
			CreatedUTC:  int64(data.CreatedUTC),
			ParentID:    data.ParentID,
			Permalink:   permalinkBase + data.Permalink,
			IsSubmitter: data.IsSubmitter,
			Edited:      bool(data.Edited),
			Subreddit:   data.Subreddit,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (c *Client) userSubmissions(ctx context.Context, username string, limit int) []model.ThreadSummary {
	children, ok := c.userListing(ctx, fmt.Sprintf("/user/%s/submitted", username), limit)
	if !ok {
		return nil
	}

	var out []model.ThreadSummary
	for i, child := range children {
		if child.Kind != "t3" {
			continue
		}
		if i > 0 && i%paceEvery == 0 {
			if err := c.pacer.Wait(ctx); err != nil {
				return out
			}
		}
		var link linkData
		if err := unmarshalData(child.Data, &link); err != nil {
			zap.L().Warn("skipping malformed user submission", zap.Error(err))
			continue
		}
		out = append(out, link.summary())
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (c *Client) userListing(ctx context.Context, path string, limit int) ([]thing, bool) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, false
	}

	q := url.Values{"limit": {strconv.Itoa(limit)}, "sort": {"new"}}
	var page thing
	if err := c.getJSON(ctx, path, q, &page); err != nil {
		zap.L().Warn("user listing fetch failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}

	var listing listingData
	if err := unmarshalData(page.Data, &listing); err != nil {
		zap.L().Warn("user listing malformed", zap.String("path", path), zap.Error(err))
		return nil, false
	}

	return listing.Children, true
}
