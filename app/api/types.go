package api

import (
	"jobpush/app/database"
	"jobpush/app/feed"
	"jobpush/app/worker"
)

type WorkerStatusInterface interface {
	Status() worker.CycleStatus
}

var _ WorkerStatusInterface = (*worker.Worker)(nil)

type Handler struct {
	postingRepo database.PostingRepository
	watchConfig *feed.Config
	worker      WorkerStatusInterface
}
