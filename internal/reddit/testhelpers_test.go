package reddit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer serves the token endpoint plus the given API handler.
func newTestServer(t *testing.T, api http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/access_token" {
			_, _ = w.Write([]byte(`{"access_token": "test-token", "expires_in": 3600}`))
			return
		}
		api(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(
		Config{ClientID: "id", ClientSecret: "secret", UserAgent: "threadlens-test/1.0"},
		WithAPIBaseURL(srv.URL),
		WithAuthBaseURL(srv.URL),
	)
}

func linkJSON(id string, score int, created int64) string {
	return fmt.Sprintf(`{
		"kind": "t3",
		"data": {
			"id": %q,
			"title": "thread %s",
			"author": "someone",
			"score": %d,
			"upvote_ratio": 0.9,
			"num_comments": 3,
			"created_utc": %d,
			"url": "https://example.com/%s",
			"permalink": "/r/testing/comments/%s/",
			"selftext": "body of %s",
			"is_self": true,
			"subreddit": "testing",
			"link_flair_text": null,
			"domain": "self.testing",
			"over_18": false,
			"spoiler": false,
			"stickied": false
		}
	}`, id, id, score, created, id, id, id)
}

func listingJSON(after string, children ...string) string {
	return fmt.Sprintf(`{"kind": "Listing", "data": {"after": %q, "children": [%s]}}`,
		after, strings.Join(children, ","))
}

func commentJSON(id, parentFullname, body string, replies string) string {
	if replies == "" {
		replies = `""`
	}
	return fmt.Sprintf(`{
		"kind": "t1",
		"data": {
			"id": %q,
			"author": "commenter",
			"body": %q,
			"score": 5,
			"created_utc": 1700000000,
			"parent_id": %q,
			"permalink": "/r/testing/comments/th1/x/%s/",
			"is_submitter": false,
			"edited": false,
			"gilded": 0,
			"controversiality": 0,
			"replies": %s
		}
	}`, id, body, parentFullname, id, replies)
}

func moreJSON(ids ...string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	return fmt.Sprintf(`{"kind": "more", "data": {"count": %d, "children": [%s]}}`,
		len(ids), strings.Join(quoted, ","))
}
