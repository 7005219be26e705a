package feed

import (
	"strings"
)

// Filterer retains postings matching at least one configured keyword.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the postings whose title or summary contains at least one of
// the keywords, compared case-insensitively. Input order is preserved.
func (f *Filterer) Run(postings []Posting, keywords []string) []Posting {
	matched := make([]Posting, 0, len(postings))
	for _, posting := range postings {
		if f.matches(posting, keywords) {
			matched = append(matched, posting)
		}
	}

	return matched
}

func (f *Filterer) matches(posting Posting, keywords []string) bool {
	title := strings.ToLower(posting.Title)
	summary := strings.ToLower(posting.Summary)

	for _, keyword := range keywords {
		term := strings.ToLower(keyword)
		if strings.Contains(title, term) || strings.Contains(summary, term) {
			return true
		}
	}

	return false
}
