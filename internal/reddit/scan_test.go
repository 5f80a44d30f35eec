package reddit

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantErr   string
		wantStart int64
		wantEnd   int64
	}{
		{name: "both_empty"},
		{
			name:      "start_only",
			start:     "2024-01-15",
			wantStart: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Unix(),
		},
		{
			name:    "end_inclusive",
			end:     "2024-01-15",
			wantEnd: time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC).Unix(),
		},
		{name: "bad_start", start: "15-01-2024", wantErr: "invalid start date"},
		{name: "bad_end", end: "yesterday", wantErr: "invalid end date"},
		{name: "inverted", start: "2024-02-01", end: "2024-01-01", wantErr: "after end date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseDateRange(tt.start, tt.end)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, r.start)
			assert.Equal(t, tt.wantEnd, r.end)
		})
	}
}

func TestTimeFilterFor(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "all", timeFilterFor(0, now))
	assert.Equal(t, "day", timeFilterFor(now.Add(-6*time.Hour).Unix(), now))
	assert.Equal(t, "week", timeFilterFor(now.Add(-3*24*time.Hour).Unix(), now))
	assert.Equal(t, "month", timeFilterFor(now.Add(-20*24*time.Hour).Unix(), now))
	assert.Equal(t, "year", timeFilterFor(now.Add(-200*24*time.Hour).Unix(), now))
	assert.Equal(t, "all", timeFilterFor(now.Add(-400*24*time.Hour).Unix(), now))
}

func TestScan_TopStopsAtFirstLowScore(t *testing.T) {
	// Scores 900, 700, 400, 800: the scan must stop at 400 and never
	// consider the out-of-order 800 even though it would qualify.
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/testing/top", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("t"))
		_, _ = w.Write([]byte(listingJSON("cursor1",
			linkJSON("p1", 900, 1700000300),
			linkJSON("p2", 700, 1700000200),
			linkJSON("p3", 400, 1700000100),
			linkJSON("p4", 800, 1700000000),
		)))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit: "testing",
		MinScore:  500,
		Sort:      "top",
		MaxScan:   100,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 900, results[0].Score)
	assert.Equal(t, 700, results[1].Score)
}

func TestScan_NewStopsBeforeStartDate(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).Unix()
	var pages atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		_, _ = w.Write([]byte(listingJSON("cursor1",
			linkJSON("n1", 50, start+7200),
			linkJSON("n2", 50, start+3600),
			linkJSON("n3", 50, start-3600), // older than the window: stop here
			linkJSON("n4", 50, start+1800), // never examined
		)))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit: "testing",
		MinScore:  10,
		StartDate: "2024-01-10",
		Sort:      "new",
		MaxScan:   100,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(1), pages.Load(), "must not fetch past the stop page")
}

func TestScan_HotStopsAfterConsecutiveMisses(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingJSON("cursor1",
			linkJSON("h1", 900, 1700000000),
			linkJSON("h2", 5, 1700000000),
			linkJSON("h3", 5, 1700000000),
			linkJSON("h4", 5, 1700000000),
			linkJSON("h5", 950, 1700000000), // past the heuristic cutoff
		)))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit:             "testing",
		MinScore:              100,
		Sort:                  "hot",
		MaxScan:               100,
		MaxConsecutiveOutside: 3,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "h1", results[0].ID)
}

func TestScan_HotMissCounterResetsOnQualify(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingJSON("",
			linkJSON("h1", 5, 1700000000),
			linkJSON("h2", 5, 1700000000),
			linkJSON("h3", 900, 1700000000),
			linkJSON("h4", 5, 1700000000),
			linkJSON("h5", 5, 1700000000),
			linkJSON("h6", 800, 1700000000),
		)))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit:             "testing",
		MinScore:              100,
		Sort:                  "hot",
		MaxScan:               100,
		MaxConsecutiveOutside: 3,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestScan_MaxScanCapsExamination(t *testing.T) {
	var pages atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		children := []string{}
		for _, id := range []string{"a", "b", "c", "d", "e"} {
			children = append(children, linkJSON(id+r.URL.Query().Get("after"), 500, 1700000000))
		}
		_, _ = w.Write([]byte(listingJSON("cursor"+r.URL.Query().Get("after")+"x", children...)))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit: "testing",
		MinScore:  100,
		Sort:      "hot",
		MaxScan:   7,
	})
	require.NoError(t, err)
	assert.Len(t, results, 7)
	assert.Equal(t, int32(2), pages.Load())
}

func TestScan_ResultsSortedByScoreDescending(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingJSON("",
			linkJSON("h1", 300, 1700000000),
			linkJSON("h2", 900, 1700000000),
			linkJSON("h3", 600, 1700000000),
		)))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit: "testing",
		MinScore:  100,
		Sort:      "hot",
		MaxScan:   100,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []int{900, 600, 300}, []int{results[0].Score, results[1].Score, results[2].Score})
}

func TestScan_DateBoundsExcludeOutsidePosts(t *testing.T) {
	inside := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).Unix()
	before := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC).Unix()
	after := time.Date(2024, 1, 21, 12, 0, 0, 0, time.UTC).Unix()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingJSON("",
			linkJSON("in", 500, inside),
			linkJSON("early", 500, before),
			linkJSON("late", 500, after),
		)))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit: "testing",
		MinScore:  100,
		StartDate: "2024-01-10",
		EndDate:   "2024-01-20",
		Sort:      "hot",
		MaxScan:   100,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "in", results[0].ID)
}

func TestScan_RemoteFailureReturnsPartial(t *testing.T) {
	var pages atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if pages.Add(1) > 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(listingJSON("cursor1", linkJSON("p1", 500, 1700000000))))
	})

	results, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit: "testing",
		MinScore:  100,
		Sort:      "hot",
		MaxScan:   100,
	})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestScan_InvalidDatesFailFast(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no remote call expected for invalid input")
	})

	_, err := newTestClient(srv).Scan(context.Background(), ScanOptions{
		Subreddit: "testing",
		StartDate: "not-a-date",
	})
	require.Error(t, err)
}
