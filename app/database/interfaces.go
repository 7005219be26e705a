package database

import (
	"time"
)

type PostingRepository interface {
	GetAllIDs() (map[string]struct{}, error)
	GetRecentPostings(limit int) ([]Posting, error)
	GetPostingCount() (int, error)
	GetLastCreatedDate() (*time.Time, error)

	InsertPostings(postings []Posting, createdDate time.Time) error
}
