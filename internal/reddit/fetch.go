package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/model"
)

// Thread listing sort modes. Unrecognized values fall back to hot.
const (
	SortHot    = "hot"
	SortNew    = "new"
	SortTop    = "top"
	SortRising = "rising"
)

func normalizeThreadSort(sort string) string {
	switch sort {
	case SortHot, SortNew, SortTop, SortRising:
		return sort
	}
	return SortHot
}

// Fetch retrieves up to limit thread summaries from a subreddit. A non-empty
// query searches within the subreddit; otherwise the listing for sort is
// used. Remote failures are logged and yield an empty slice so a caller can
// move on to the next subreddit.
func (c *Client) Fetch(ctx context.Context, subreddit, query string, limit int, sort string) []model.ThreadSummary {
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var path string
	if query != "" {
		path = fmt.Sprintf("/r/%s/search", subreddit)
		q.Set("q", query)
		q.Set("restrict_sr", "1")
	} else {
		path = fmt.Sprintf("/r/%s/%s", subreddit, normalizeThreadSort(sort))
	}

	if err := c.pacer.Wait(ctx); err != nil {
		zap.L().Warn("fetch aborted while pacing", zap.String("subreddit", subreddit), zap.Error(err))
		return nil
	}

	var page thing
	if err := c.getJSON(ctx, path, q, &page); err != nil {
		zap.L().Warn("thread fetch failed",
			zap.String("subreddit", subreddit),
			zap.String("sort", sort),
			zap.Error(err),
		)
		return nil
	}

	var listing listingData
	if err := unmarshalData(page.Data, &listing); err != nil {
		zap.L().Warn("thread fetch returned malformed listing",
			zap.String("subreddit", subreddit),
			zap.Error(err),
		)
		return nil
	}

	threads := make([]model.ThreadSummary, 0, len(listing.Children))
	for _, child := range listing.Children {
		if child.Kind != "t3" {
			continue
		}
		// Pace every item beyond the first, matching the per-submission
		// budget of a lazy listing iterator.
		if len(threads) > 0 {
			if err := c.pacer.Wait(ctx); err != nil {
				zap.L().Warn("fetch aborted while pacing", zap.String("subreddit", subreddit), zap.Error(err))
				return threads
			}
		}
		var link linkData
		if err := unmarshalData(child.Data, &link); err != nil {
			zap.L().Warn("skipping malformed thread entry", zap.Error(err))
			continue
		}
		threads = append(threads, link.summary())
		if len(threads) >= limit {
			break
		}
	}

	return threads
}
