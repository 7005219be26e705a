package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"jobpush/app/database"
	"jobpush/app/feed"
	"jobpush/app/notify"
)

// CycleStatus describes the outcome of the most recent polling cycle.
type CycleStatus struct {
	CompletedAt time.Time `json:"completed_at"`
	Total       int       `json:"total"`
	Matched     int       `json:"matched"`
	New         int       `json:"new"`
	Error       string    `json:"error,omitempty"`
}

// Worker drives the polling loop: fetch, filter, dedup, notify, persist,
// then wait. At most one cycle runs at a time; a new cycle never starts
// before the previous one, including its persistence step, completes.
type Worker struct {
	reader      *feed.Reader
	filterer    *feed.Filterer
	dispatcher  *notify.Dispatcher
	postingRepo database.PostingRepository
	watchConfig *feed.Config
	interval    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	status CycleStatus
}

func NewWorker(reader *feed.Reader, filterer *feed.Filterer, dispatcher *notify.Dispatcher,
	postingRepo database.PostingRepository, watchConfig *feed.Config, interval time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		reader:      reader,
		filterer:    filterer,
		dispatcher:  dispatcher,
		postingRepo: postingRepo,
		watchConfig: watchConfig,
		interval:    interval,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop cancels the loop and waits for an in-flight cycle to finish.
// Cancellation is cooperative: it is observed at cycle boundaries and during
// the inter-cycle wait, never mid-write.
func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
}

// Status returns the outcome of the most recent cycle.
func (w *Worker) Status() CycleStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

func (w *Worker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		if err := w.RunCycle(w.ctx); err != nil {
			// The loop keeps running; the next interval retries.
			slog.Error("Cycle failed", "error", err)
		}

		select {
		case <-w.ctx.Done():
			return
		case <-time.After(w.interval):
		}
	}
}

// RunCycle executes one full pass of the pipeline. Per-feed and per-send
// failures are handled locally; only a persistence failure is returned.
func (w *Worker) RunCycle(ctx context.Context) error {
	start := time.Now()

	postings := w.reader.FetchAll(ctx, w.watchConfig.Feeds)

	matched := w.filterer.Run(postings, w.watchConfig.Keywords)

	// Snapshot of stored ids, taken once per cycle before any notification.
	storedIDs, err := w.postingRepo.GetAllIDs()
	if err != nil {
		err = fmt.Errorf("failed to read stored posting ids: %w", err)
		w.setStatus(len(postings), len(matched), 0, err)
		return err
	}

	fresh := make([]feed.Posting, 0, len(matched))
	for _, posting := range matched {
		if _, seen := storedIDs[posting.ID]; !seen {
			fresh = append(fresh, posting)
		}
	}

	if len(fresh) > 0 {
		// The dispatch batch runs to completion even when cancellation
		// arrives mid-cycle; every persisted posting has had its send
		// attempt.
		w.dispatcher.Run(fresh)

		// Survivors are persisted regardless of notification outcome.
		if err := w.persist(fresh); err != nil {
			err = fmt.Errorf("failed to store postings: %w", err)
			w.setStatus(len(postings), len(matched), len(fresh), err)
			return err
		}
	}

	slog.Info("Cycle completed",
		"duration", time.Since(start),
		"total", len(postings),
		"matched", len(matched),
		"new", len(fresh))

	w.setStatus(len(postings), len(matched), len(fresh), nil)

	return nil
}

func (w *Worker) persist(postings []feed.Posting) error {
	records := make([]database.Posting, 0, len(postings))
	for _, posting := range postings {
		records = append(records, database.Posting{
			ID:          posting.ID,
			Title:       posting.Title,
			Summary:     posting.Summary,
			Categories:  posting.Categories,
			Link:        posting.Link,
			PublishDate: posting.PublishDate,
		})
	}

	return w.postingRepo.InsertPostings(records, time.Now())
}

func (w *Worker) setStatus(total, matched, fresh int, err error) {
	status := CycleStatus{
		CompletedAt: time.Now(),
		Total:       total,
		Matched:     matched,
		New:         fresh,
	}
	if err != nil {
		status.Error = err.Error()
	}

	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
}
