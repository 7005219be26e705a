package database

import (
	"path/filepath"
	"testing"
	"time"
)

func testRepository(t *testing.T) *PostingRepositoryImpl {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewPostingRepository(db)
}

func testPosting(id string) Posting {
	return Posting{
		ID:          id,
		Title:       "Need ASP.NET developer",
		Summary:     "Looking for an experienced developer",
		Categories:  "ASP.NET,C#",
		Link:        "https://www.freelancer.com/projects/" + id,
		PublishDate: time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC),
	}
}

func TestPostingRepository_InsertAndGetAllIDs(t *testing.T) {
	repo := testRepository(t)

	now := time.Now().UTC()
	err := repo.InsertPostings([]Posting{testPosting("a"), testPosting("b")}, now)
	if err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}

	ids, err := repo.GetAllIDs()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(ids) != 2 {
		t.Fatalf("Expected 2 ids, got %d", len(ids))
	}
	if _, ok := ids["a"]; !ok {
		t.Error("Expected id 'a' in snapshot")
	}
	if _, ok := ids["b"]; !ok {
		t.Error("Expected id 'b' in snapshot")
	}
}

func TestPostingRepository_InsertStampsCreatedDate(t *testing.T) {
	repo := testRepository(t)

	now := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.InsertPostings([]Posting{testPosting("a")}, now); err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}

	postings, err := repo.GetRecentPostings(10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("Expected 1 posting, got %d", len(postings))
	}
	if !postings[0].CreatedDate.Equal(now) {
		t.Errorf("Expected created date %v, got %v", now, postings[0].CreatedDate)
	}
}

func TestPostingRepository_DuplicateIDViolatesConstraint(t *testing.T) {
	repo := testRepository(t)

	now := time.Now().UTC()
	if err := repo.InsertPostings([]Posting{testPosting("a")}, now); err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}

	err := repo.InsertPostings([]Posting{testPosting("a")}, now)
	if err == nil {
		t.Error("Expected constraint violation for duplicate id")
	}
}

func TestPostingRepository_IntraBatchDuplicateRollsBackBatch(t *testing.T) {
	repo := testRepository(t)

	now := time.Now().UTC()
	err := repo.InsertPostings([]Posting{testPosting("a"), testPosting("b"), testPosting("a")}, now)
	if err == nil {
		t.Fatal("Expected constraint violation for intra-batch duplicate")
	}

	// The failed batch must not leave partial rows behind.
	count, err := repo.GetPostingCount()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 postings after rollback, got %d", count)
	}
}

func TestPostingRepository_EmptyBatchIsNoop(t *testing.T) {
	repo := testRepository(t)

	if err := repo.InsertPostings(nil, time.Now().UTC()); err != nil {
		t.Errorf("Unexpected error for empty batch: %v", err)
	}
}

func TestPostingRepository_GetPostingCount(t *testing.T) {
	repo := testRepository(t)

	count, err := repo.GetPostingCount()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 postings in fresh store, got %d", count)
	}

	if err := repo.InsertPostings([]Posting{testPosting("a"), testPosting("b")}, time.Now().UTC()); err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}

	count, err = repo.GetPostingCount()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 postings, got %d", count)
	}
}

func TestPostingRepository_GetLastCreatedDate(t *testing.T) {
	repo := testRepository(t)

	last, err := repo.GetLastCreatedDate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if last != nil {
		t.Errorf("Expected nil last created date for empty store, got %v", last)
	}

	first := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	second := time.Date(2020, 5, 1, 13, 0, 0, 0, time.UTC)
	if err := repo.InsertPostings([]Posting{testPosting("a")}, first); err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}
	if err := repo.InsertPostings([]Posting{testPosting("b")}, second); err != nil {
		t.Fatalf("Unexpected insert error: %v", err)
	}

	last, err = repo.GetLastCreatedDate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if last == nil || !last.Equal(second) {
		t.Errorf("Expected last created date %v, got %v", second, last)
	}
}
