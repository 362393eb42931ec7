package feed

import (
	"context"
	"log"
	"time"

	"github.com/horizonenergysouth/horizon-crm/internal/infra/database"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/http/middleware"
)

// Watcher follows the leads collection's change stream and republishes the
// full, ordered snapshot through the hub on every remote change. Errors fail
// open: subscribers keep their last-known list while the watcher reconnects.
type Watcher struct {
	Repo *database.LeadRepository
	Hub  *Hub

	retryDelay time.Duration
}

func NewWatcher(repo *database.LeadRepository, hub *Hub) *Watcher {
	return &Watcher{
		Repo:       repo,
		Hub:        hub,
		retryDelay: 5 * time.Second,
	}
}

// Run blocks until ctx is cancelled. It publishes an initial snapshot, then
// one replacement snapshot per change stream event.
func (w *Watcher) Run(ctx context.Context) {
	w.publishSnapshot(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		stream, err := w.Repo.Watch(ctx)
		if err != nil {
			log.Printf("[feed] change stream open failed: %v (retrying in %s)", err, w.retryDelay)
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		log.Printf("[feed] watching leads collection")
		for stream.Next(ctx) {
			w.publishSnapshot(ctx)
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("[feed] change stream closed: %v (retrying in %s)", err, w.retryDelay)
		}
		stream.Close(context.Background())

		if !w.sleep(ctx) {
			return
		}
	}
}

func (w *Watcher) publishSnapshot(ctx context.Context) {
	leads, err := w.Repo.FindAll(ctx)
	if err != nil {
		// Fail open: the last published snapshot stays current.
		log.Printf("[feed] snapshot query failed: %v", err)
		return
	}
	w.Hub.Publish(leads)
	middleware.RecordFeedSnapshot()
}

func (w *Watcher) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.retryDelay):
		return true
	}
}
