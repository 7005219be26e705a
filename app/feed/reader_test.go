package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func feedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func rssWithItems(items string) string {
	return strings.ReplaceAll(rssTemplate, "%s", items)
}

func TestReader_Fetch_ReturnsPostings(t *testing.T) {
	body := rssWithItems(`
<item>
<title>Need C# developer</title>
<link>https://www.freelancer.com/projects/1</link>
<guid>freelancer-1</guid>
<description>Desktop tool</description>
<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>`)
	server := feedServer(t, body, http.StatusOK)

	reader := NewReader(server.Client(), NewParser(), "JobPush/test")

	postings, err := reader.Fetch(context.Background(), FeedConfig{
		Name:    "freelancer",
		URL:     server.URL,
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Unexpected fetch error: %v", err)
	}

	if len(postings) != 1 {
		t.Fatalf("Expected 1 posting, got %d", len(postings))
	}
	if postings[0].ID != "freelancer-1" {
		t.Errorf("Unexpected posting ID: '%s'", postings[0].ID)
	}
}

func TestReader_Fetch_HTTPError(t *testing.T) {
	server := feedServer(t, "gone", http.StatusNotFound)

	reader := NewReader(server.Client(), NewParser(), "JobPush/test")

	_, err := reader.Fetch(context.Background(), FeedConfig{Name: "broken", URL: server.URL, Timeout: 5})
	if err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestReader_FetchAll_FailingFeedDoesNotAbortOthers(t *testing.T) {
	good := feedServer(t, rssWithItems(`
<item>
<title>.NET Core API</title>
<guid>upwork-1</guid>
<description>REST backend</description>
<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>`), http.StatusOK)
	broken := feedServer(t, "not a feed", http.StatusOK)

	reader := NewReader(http.DefaultClient, NewParser(), "JobPush/test")

	postings := reader.FetchAll(context.Background(), []FeedConfig{
		{Name: "broken", URL: broken.URL, Timeout: 5},
		{Name: "good", URL: good.URL, Timeout: 5},
	})

	if len(postings) != 1 {
		t.Fatalf("Expected 1 posting from the healthy feed, got %d", len(postings))
	}
	if postings[0].ID != "upwork-1" {
		t.Errorf("Unexpected posting ID: '%s'", postings[0].ID)
	}
}

func TestReader_FetchAll_SortsByPublishDateAscending(t *testing.T) {
	older := feedServer(t, rssWithItems(`
<item>
<title>Older .NET job</title>
<guid>older</guid>
<description>Posted earlier</description>
<pubDate>Mon, 02 Jan 2006 10:00:00 GMT</pubDate>
</item>`), http.StatusOK)
	newer := feedServer(t, rssWithItems(`
<item>
<title>Newer .NET job</title>
<guid>newer</guid>
<description>Posted later</description>
<pubDate>Mon, 02 Jan 2006 12:00:00 GMT</pubDate>
</item>`), http.StatusOK)

	reader := NewReader(http.DefaultClient, NewParser(), "JobPush/test")

	// The newer feed is listed first; sorting must still put the older
	// posting ahead.
	postings := reader.FetchAll(context.Background(), []FeedConfig{
		{Name: "newer", URL: newer.URL, Timeout: 5},
		{Name: "older", URL: older.URL, Timeout: 5},
	})

	if len(postings) != 2 {
		t.Fatalf("Expected 2 postings, got %d", len(postings))
	}
	if postings[0].ID != "older" || postings[1].ID != "newer" {
		t.Errorf("Expected chronological order [older, newer], got [%s, %s]", postings[0].ID, postings[1].ID)
	}
}
