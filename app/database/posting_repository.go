package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ PostingRepository = (*PostingRepositoryImpl)(nil)

// PostingRepositoryImpl handles database operations for notified postings
type PostingRepositoryImpl struct {
	db *DB
}

// NewPostingRepository creates a new posting repository
func NewPostingRepository(db *DB) *PostingRepositoryImpl {
	return &PostingRepositoryImpl{db: db}
}

// GetAllIDs returns a point-in-time snapshot of every stored posting ID.
// The snapshot is the dedup reference for one polling cycle.
func (r *PostingRepositoryImpl) GetAllIDs() (map[string]struct{}, error) {
	rows, err := r.db.Query(`SELECT id FROM postings`)
	if err != nil {
		return nil, fmt.Errorf("failed to get posting ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan posting id: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting id rows: %w", err)
	}

	return ids, nil
}

// InsertPostings stores a batch of postings in a single transaction,
// stamping each with the given creation date. A duplicate ID inside the
// batch violates the primary key and rolls back the whole batch.
func (r *PostingRepositoryImpl) InsertPostings(postings []Posting, createdDate time.Time) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO postings (id, title, summary, categories, link, publish_date, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, posting := range postings {
		_, err := stmt.Exec(posting.ID, posting.Title, posting.Summary,
			posting.Categories, posting.Link, posting.PublishDate, createdDate)
		if err != nil {
			return fmt.Errorf("failed to insert posting %s: %w", posting.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit postings: %w", err)
	}

	return nil
}

// GetRecentPostings returns the most recently stored postings
func (r *PostingRepositoryImpl) GetRecentPostings(limit int) ([]Posting, error) {
	rows, err := r.db.Query(`
		SELECT id, title, summary, COALESCE(categories, ''), link, publish_date, created_date
		FROM postings
		ORDER BY created_date DESC, publish_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent postings: %w", err)
	}
	defer rows.Close()

	var postings []Posting
	for rows.Next() {
		var posting Posting
		err := rows.Scan(&posting.ID, &posting.Title, &posting.Summary,
			&posting.Categories, &posting.Link, &posting.PublishDate, &posting.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		postings = append(postings, posting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting rows: %w", err)
	}

	return postings, nil
}

// GetPostingCount returns the total number of stored postings
func (r *PostingRepositoryImpl) GetPostingCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM postings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get posting count: %w", err)
	}
	return count, nil
}

// GetLastCreatedDate returns the creation date of the most recent posting,
// or nil when the store is empty
func (r *PostingRepositoryImpl) GetLastCreatedDate() (*time.Time, error) {
	var last time.Time
	err := r.db.QueryRow(`SELECT created_date FROM postings ORDER BY created_date DESC LIMIT 1`).Scan(&last)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last created date: %w", err)
	}
	return &last, nil
}
