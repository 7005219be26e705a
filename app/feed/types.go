package feed

import (
	"time"
)

// Posting is one normalized job posting flowing through the pipeline.
type Posting struct {
	ID          string // Entry GUID, falling back to the entry link
	Title       string
	Summary     string // May contain markup
	Categories  string // Comma-joined category names, empty when none
	Link        string // First link of the entry, empty when absent
	PublishDate time.Time
	CreatedDate time.Time // Stamped by the persistence layer, zero until then
}

// Configuration types

type Config struct {
	Feeds    []FeedConfig `yaml:"feeds"`
	Keywords []string     `yaml:"keywords"`
}

type FeedConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // seconds
}
