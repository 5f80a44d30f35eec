package reddit

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/model"
)

// Comment ordering modes. "best" maps to the wire name "confidence".
var commentSorts = map[string]string{
	"best":          "confidence",
	"top":           "top",
	"new":           "new",
	"controversial": "controversial",
	"old":           "old",
	"qa":            "qa",
}

func normalizeCommentSort(sort string) string {
	if wire, ok := commentSorts[sort]; ok {
		return wire
	}
	return "confidence"
}

// morechildren batches are capped by the API.
const moreBatchSize = 100

type commentNode struct {
	data     commentData
	children []*commentNode
}

// Comments fetches the full comment tree of a thread and flattens it into
// pre-order: each comment precedes all of its descendants, depth 0 at the
// top level and parent depth + 1 below. Every "load more" placeholder is
// expanded before traversal, each expansion paced like any other remote
// call. Remote failures are logged and yield an empty slice.
func (c *Client) Comments(ctx context.Context, threadID, sort string) []model.CommentRecord {
	wireSort := normalizeCommentSort(sort)

	if err := c.pacer.Wait(ctx); err != nil {
		zap.L().Warn("comment fetch aborted while pacing", zap.String("thread", threadID), zap.Error(err))
		return nil
	}

	var pair []json.RawMessage
	q := url.Values{"sort": {wireSort}, "limit": {"500"}}
	if err := c.getJSON(ctx, "/comments/"+threadID, q, &pair); err != nil {
		zap.L().Warn("comment fetch failed", zap.String("thread", threadID), zap.Error(err))
		return nil
	}
	if len(pair) < 2 {
		zap.L().Warn("comment fetch returned unexpected payload", zap.String("thread", threadID))
		return nil
	}

	roots, nodes, moreIDs, err := parseCommentListing(pair[1])
	if err != nil {
		zap.L().Warn("comment tree parse failed", zap.String("thread", threadID), zap.Error(err))
		return nil
	}

	// Expand placeholders until none remain. Threads with thousands of
	// comments can take many paced calls here.
	for len(moreIDs) > 0 {
		batch := moreIDs
		if len(batch) > moreBatchSize {
			batch = batch[:moreBatchSize]
		}
		moreIDs = moreIDs[len(batch):]

		if err := c.pacer.Wait(ctx); err != nil {
			zap.L().Warn("comment expansion aborted while pacing", zap.String("thread", threadID), zap.Error(err))
			return nil
		}

		extra, extraMore, err := c.moreChildren(ctx, threadID, wireSort, batch)
		if err != nil {
			zap.L().Warn("comment expansion failed", zap.String("thread", threadID), zap.Error(err))
			return nil
		}
		moreIDs = append(moreIDs, extraMore...)

		for _, data := range extra {
			n := &commentNode{data: data}
			nodes["t1_"+data.ID] = n
			if parent, ok := nodes[data.ParentID]; ok {
				parent.children = append(parent.children, n)
			} else {
				// Parent is the thread itself.
				roots = append(roots, n)
			}
		}
	}

	return flatten(roots)
}

// parseCommentListing walks the nested reply listings iteratively and builds
// the comment tree, collecting placeholder ids for later expansion.
func parseCommentListing(raw json.RawMessage) ([]*commentNode, map[string]*commentNode, []string, error) {
	var top thing
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, nil, nil, err
	}

	roots := []*commentNode{}
	nodes := map[string]*commentNode{}
	moreIDs := []string{}

	type pending struct {
		parent  *commentNode
		listing json.RawMessage
	}
	queue := []pending{{parent: nil, listing: top.Data}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		var listing listingData
		if err := json.Unmarshal(cur.listing, &listing); err != nil {
			return nil, nil, nil, err
		}

		for _, child := range listing.Children {
			switch child.Kind {
			case "t1":
				var data commentData
				if err := json.Unmarshal(child.Data, &data); err != nil {
					return nil, nil, nil, err
				}
				n := &commentNode{data: data}
				nodes["t1_"+data.ID] = n
				if cur.parent != nil {
					cur.parent.children = append(cur.parent.children, n)
				} else {
					roots = append(roots, n)
				}
				if hasListing(data.Replies) {
					queue = append(queue, pending{parent: n, listing: data.Replies})
				}
			case "more":
				var data moreData
				if err := json.Unmarshal(child.Data, &data); err != nil {
					return nil, nil, nil, err
				}
				moreIDs = append(moreIDs, data.Children...)
			}
		}
	}

	return roots, nodes, moreIDs, nil
}

type moreChildrenResponse struct {
	JSON struct {
		Data struct {
			Things []thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// moreChildren resolves one batch of placeholder ids into flat comments,
// each carrying its parent fullname for re-attachment.
func (c *Client) moreChildren(ctx context.Context, threadID, sort string, ids []string) ([]commentData, []string, error) {
	q := url.Values{
		"api_type": {"json"},
		"link_id":  {"t3_" + threadID},
		"children": {strings.Join(ids, ",")},
		"sort":     {sort},
	}

	var resp moreChildrenResponse
	if err := c.getJSON(ctx, "/api/morechildren", q, &resp); err != nil {
		return nil, nil, err
	}

	var comments []commentData
	var moreIDs []string
	for _, th := range resp.JSON.Data.Things {
		switch th.Kind {
		case "t1":
			var data commentData
			if err := unmarshalData(th.Data, &data); err != nil {
				return nil, nil, err
			}
			comments = append(comments, data)
		case "more":
			var data moreData
			if err := unmarshalData(th.Data, &data); err != nil {
				return nil, nil, err
			}
			moreIDs = append(moreIDs, data.Children...)
		}
	}

	return comments, moreIDs, nil
}

// flatten emits the tree in pre-order with an explicit stack. Deep threads
// would overflow call-stack recursion, so the traversal is iterative.
func flatten(roots []*commentNode) []model.CommentRecord {
	type frame struct {
		node   *commentNode
		depth  int
		parent string
	}

	var stack []frame
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i], depth: 0})
	}

	var out []model.CommentRecord
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := f.node.data
		author := d.Author
		if author == "" {
			author = model.DeletedAuthor
		}
		out = append(out, model.CommentRecord{
			ID:               d.ID,
			Author:           author,
			Body:             d.Body,
			Score:            d.Score,
			CreatedUTC:       int64(d.CreatedUTC),
			ParentID:         f.parent,
			Depth:            f.depth,
			Permalink:        permalinkBase + d.Permalink,
			IsSubmitter:      d.IsSubmitter,
			Edited:           bool(d.Edited),
			Gilded:           d.Gilded,
			Controversiality: d.Controversiality,
		})

		for i := len(f.node.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.children[i], depth: f.depth + 1, parent: d.ID})
		}
	}

	return out
}
