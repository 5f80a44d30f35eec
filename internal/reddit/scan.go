package reddit

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/model"
)

const (
	scanPageSize = 100

	// paceEvery trades throughput against politeness while scanning: one
	// pacer wait per ten examined posts instead of one per post.
	paceEvery = 10
)

// ScanOptions configures a filtering scan over a subreddit listing.
type ScanOptions struct {
	Subreddit string
	MinScore  int

	// StartDate and EndDate are inclusive YYYY-MM-DD calendar dates; either
	// may be empty. EndDate covers through 23:59:59 of that day.
	StartDate string
	EndDate   string

	Sort    string
	MaxScan int

	// MaxConsecutiveOutside stops a hot/rising scan once this many
	// consecutive posts fell outside the requested bounds. Those orderings
	// have no monotonic stop rule, so this heuristic decides when the
	// stream has drifted past the relevant window. It can miss late
	// qualifying posts.
	MaxConsecutiveOutside int
}

type dateRange struct {
	start int64 // 0 means unbounded
	end   int64
}

func parseDateRange(startDate, endDate string) (dateRange, error) {
	var r dateRange

	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return r, eris.Wrapf(err, "scan: invalid start date %q (want YYYY-MM-DD)", startDate)
		}
		r.start = t.UTC().Unix()
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return r, eris.Wrapf(err, "scan: invalid end date %q (want YYYY-MM-DD)", endDate)
		}
		// Inclusive through the end of the day.
		r.end = t.UTC().Unix() + 86399
	}
	if r.start != 0 && r.end != 0 && r.start > r.end {
		return r, eris.Errorf("scan: start date %s is after end date %s", startDate, endDate)
	}

	return r, nil
}

func (r dateRange) contains(ts int64) bool {
	if r.start != 0 && ts < r.start {
		return false
	}
	if r.end != 0 && ts > r.end {
		return false
	}
	return true
}

// timeFilterFor picks the narrowest server-side time filter that still
// covers the window, so a top-sorted scan does not page through years of
// history it will discard anyway.
func timeFilterFor(start int64, now time.Time) string {
	if start == 0 {
		return "all"
	}
	age := now.Sub(time.Unix(start, 0))
	switch {
	case age <= 24*time.Hour:
		return "day"
	case age <= 7*24*time.Hour:
		return "week"
	case age <= 31*24*time.Hour:
		return "month"
	case age <= 366*24*time.Hour:
		return "year"
	}
	return "all"
}

// Scan walks an unbounded sort-ordered listing and returns the posts that
// meet the score and date predicates, sorted by score descending. Sort-aware
// early termination keeps it from consuming the whole corpus:
//
//   - top: scores only decrease, so the first post below MinScore ends the
//     scan;
//   - new: timestamps only decrease, so the first post older than the start
//     bound ends the scan;
//   - hot/rising: no monotonic rule; the scan stops after
//     MaxConsecutiveOutside consecutive misses.
//
// At most MaxScan posts are examined regardless of sort. Validation failures
// (malformed dates, start after end) are returned as errors; remote failures
// mid-scan are logged and return what qualified so far.
func (c *Client) Scan(ctx context.Context, opts ScanOptions) ([]model.ThreadSummary, error) {
	bounds, err := parseDateRange(opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	scanSort := normalizeThreadSort(opts.Sort)
	if opts.MaxScan <= 0 {
		opts.MaxScan = 1000
	}
	if opts.MaxConsecutiveOutside <= 0 {
		opts.MaxConsecutiveOutside = 100
	}

	var (
		results            []model.ThreadSummary
		examined           int
		consecutiveOutside int
		after              string
	)

scan:
	for examined < opts.MaxScan {
		q := url.Values{"limit": {strconv.Itoa(scanPageSize)}}
		if after != "" {
			q.Set("after", after)
		}
		if scanSort == SortTop {
			q.Set("t", timeFilterFor(bounds.start, time.Now()))
		}

		if err := c.pacer.Wait(ctx); err != nil {
			zap.L().Warn("scan aborted while pacing", zap.String("subreddit", opts.Subreddit), zap.Error(err))
			break
		}

		var page thing
		path := fmt.Sprintf("/r/%s/%s", opts.Subreddit, scanSort)
		if err := c.getJSON(ctx, path, q, &page); err != nil {
			zap.L().Warn("scan page fetch failed, returning partial results",
				zap.String("subreddit", opts.Subreddit),
				zap.Int("examined", examined),
				zap.Error(err),
			)
			break
		}

		var listing listingData
		if err := unmarshalData(page.Data, &listing); err != nil {
			zap.L().Warn("scan page malformed, returning partial results", zap.Error(err))
			break
		}
		if len(listing.Children) == 0 {
			break
		}

		for _, child := range listing.Children {
			if child.Kind != "t3" {
				continue
			}
			if examined >= opts.MaxScan {
				break scan
			}
			examined++
			if examined%paceEvery == 0 {
				if err := c.pacer.Wait(ctx); err != nil {
					zap.L().Warn("scan aborted while pacing", zap.Error(err))
					break scan
				}
			}

			var link linkData
			if err := unmarshalData(child.Data, &link); err != nil {
				zap.L().Warn("skipping malformed scan entry", zap.Error(err))
				continue
			}

			created := int64(link.CreatedUTC)
			inRange := bounds.contains(created)
			qualifies := inRange && link.Score >= opts.MinScore

			switch scanSort {
			case SortTop:
				// Score-descending stream: nothing later can score higher.
				if link.Score < opts.MinScore {
					break scan
				}
			case SortNew:
				// Time-descending stream: nothing later can be newer.
				if bounds.start != 0 && created < bounds.start {
					break scan
				}
			default:
				if qualifies {
					consecutiveOutside = 0
				} else {
					consecutiveOutside++
					if consecutiveOutside >= opts.MaxConsecutiveOutside {
						zap.L().Debug("scan drifted out of range, stopping",
							zap.Int("consecutive_outside", consecutiveOutside),
						)
						break scan
					}
				}
			}

			if qualifies {
				results = append(results, link.summary())
			}
		}

		after = listing.After
		if after == "" {
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	zap.L().Info("scan complete",
		zap.String("subreddit", opts.Subreddit),
		zap.String("sort", scanSort),
		zap.Int("examined", examined),
		zap.Int("matched", len(results)),
	)

	return results, nil
}
