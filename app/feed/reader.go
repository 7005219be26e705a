package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// Reader fetches configured feeds and aggregates their postings. A failing
// feed contributes zero postings and never aborts the remaining feeds.
type Reader struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
}

func NewReader(httpClient *http.Client, parser *Parser, userAgent string) *Reader {
	return &Reader{
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
	}
}

// FetchAll fetches every configured feed, concatenates the results and sorts
// them by publish date ascending so downstream notification order
// approximates chronological order.
func (r *Reader) FetchAll(ctx context.Context, feeds []FeedConfig) []Posting {
	var postings []Posting

	for _, feedConfig := range feeds {
		fetched, err := r.Fetch(ctx, feedConfig)
		if err != nil {
			slog.Error("Failed to read feed", "feed", feedConfig.Name, "url", feedConfig.URL, "error", err)
			continue
		}
		postings = append(postings, fetched...)
	}

	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].PublishDate.Before(postings[j].PublishDate)
	})

	return postings
}

// Fetch retrieves and parses a single feed.
func (r *Reader) Fetch(ctx context.Context, feedConfig FeedConfig) ([]Posting, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(feedConfig.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", feedConfig.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	postings, err := r.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return postings, nil
}
