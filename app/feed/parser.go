package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed data and returns the normalized postings. Entries
// missing a title, a summary or a parseable publish timestamp are skipped
// rather than propagated half-populated.
func (p *Parser) Run(data []byte) ([]Posting, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	postings := make([]Posting, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		posting, ok := p.normalizeItem(item)
		if !ok {
			continue
		}
		postings = append(postings, posting)
	}

	return postings, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) (Posting, bool) {
	if item.Title == "" || item.Description == "" || item.PublishedParsed == nil {
		return Posting{}, false
	}

	posting := Posting{
		ID:          cmp.Or(item.GUID, item.Link),
		Title:       item.Title,
		Summary:     item.Description,
		Link:        item.Link,
		PublishDate: *item.PublishedParsed,
	}

	if posting.ID == "" {
		return Posting{}, false
	}

	if len(item.Categories) > 0 {
		posting.Categories = strings.Join(item.Categories, ",")
	}

	return posting, true
}
