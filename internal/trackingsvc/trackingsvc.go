// Package trackingsvc implements the BufferedTrackingService (spec.md
// §4.5): a bounded buffer between the trackers and the durable store,
// flushed on a batch-size/interval trigger with bounded retries, plus an
// independent periodic sync loop that pushes unsynced rows to the
// aggregation server and garbage-collects what it confirms landed.
package trackingsvc

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/samwahome/skopio-desktop/internal/config"
	"github.com/samwahome/skopio-desktop/internal/store"
)

// Syncer pushes unsynced rows to the aggregation server. internal/netclient
// implements it.
type Syncer interface {
	PostEvents(ctx context.Context, events []store.Event) error
	PostAFKEvents(ctx context.Context, events []store.AFKEvent) error
}

const (
	bufferCapacity = 100
	flushBatchSize = 10
	maxInsertTries = 3
)

type item struct {
	event *store.Event
	afk   *store.AFKEvent
}

// BufferedTrackingService is grounded on sync_service.rs's
// BufferedTrackingService: trackers hand it closed spans over a channel,
// a background loop batches and writes them to the local store, and a
// second, independent loop periodically syncs unsynced rows to the
// server. Unlike the original, a failed insert's retry slot is retained
// across flush cycles rather than discarded with the goroutine that
// produced it — the original spawns a fresh task per flush with its own
// local retry_queue that is never written back to the loop's retry_queue,
// so a row that exhausts its 3 attempts is silently dropped instead of
// retried on the next flush; this implementation keeps flushing
// synchronous precisely so the retry queue survives between cycles.
type BufferedTrackingService struct {
	db     *store.Store
	syncer Syncer
	cfg    *config.Broadcaster
	log    *zap.Logger

	ch chan item
}

// New constructs a BufferedTrackingService. Call Start to begin the
// background flush and sync loops.
func New(db *store.Store, syncer Syncer, cfg *config.Broadcaster, log *zap.Logger) *BufferedTrackingService {
	return &BufferedTrackingService{
		db:     db,
		syncer: syncer,
		cfg:    cfg,
		log:    log,
		ch:     make(chan item, bufferCapacity),
	}
}

// InsertEvent enqueues a closed event for buffered persistence without
// blocking; when the buffer is full the event is dropped. It satisfies
// tracker.Sink.
func (s *BufferedTrackingService) InsertEvent(e store.Event) error {
	select {
	case s.ch <- item{event: &e}:
	default:
		s.log.Debug("tracking buffer full, dropping event")
	}
	return nil
}

// InsertAFKEvent enqueues a closed AFK span for buffered persistence
// without blocking; when the buffer is full the span is dropped. It
// satisfies tracker.Sink.
func (s *BufferedTrackingService) InsertAFKEvent(e store.AFKEvent) error {
	select {
	case s.ch <- item{afk: &e}:
	default:
		s.log.Debug("tracking buffer full, dropping AFK span")
	}
	return nil
}

// Start launches the flush and sync loops; both stop when ctx is
// cancelled, the flush loop draining any buffered items first.
func (s *BufferedTrackingService) Start(ctx context.Context) {
	go s.runFlushLoop(ctx)
	go s.runSyncLoop(ctx)
}

func (s *BufferedTrackingService) runFlushLoop(ctx context.Context) {
	flushInterval := s.cfg.Current().FlushInterval()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var buffer, retry []item
	lastFlush := time.Now()

	for {
		select {
		case <-ctx.Done():
			for drained := false; !drained; {
				select {
				case it := <-s.ch:
					buffer = append(buffer, it)
				default:
					drained = true
				}
			}
			if len(buffer) > 0 || len(retry) > 0 {
				s.log.Info("flushing buffer before shutdown", zap.Int("items", len(buffer)+len(retry)))
				retry = s.flush(ctx, append(retry, buffer...))
			}
			return

		case it, ok := <-s.ch:
			if !ok {
				return
			}
			buffer = append(buffer, it)
			if len(buffer) >= flushBatchSize || time.Since(lastFlush) >= flushInterval {
				retry = s.flush(ctx, append(retry, buffer...))
				buffer = nil
				lastFlush = time.Now()
			}

		case <-ticker.C:
			if len(buffer) > 0 {
				retry = s.flush(ctx, append(retry, buffer...))
				buffer = nil
			}
			lastFlush = time.Now()
		}
	}
}

// flush writes every item in batch to the local store, retrying each up
// to maxInsertTries times with a linear backoff, and returns the items
// that still failed after exhausting their attempts.
func (s *BufferedTrackingService) flush(ctx context.Context, batch []item) []item {
	if len(batch) == 0 {
		return nil
	}

	start := time.Now()
	var failed []item

	for _, it := range batch {
		var err error
		for attempt := 1; attempt <= maxInsertTries; attempt++ {
			if it.event != nil {
				err = s.db.InsertEvent(*it.event)
			} else {
				err = s.db.InsertAFKEvent(*it.afk)
			}
			if err == nil {
				break
			}
			if attempt < maxInsertTries {
				select {
				case <-ctx.Done():
					return append(failed, it)
				case <-time.After(time.Duration(200*attempt) * time.Millisecond):
				}
			}
		}
		if err != nil {
			s.log.Warn("insert failed after retries", zap.Error(err))
			failed = append(failed, it)
		}
	}

	s.log.Debug("flushed buffer", zap.Int("items", len(batch)), zap.Duration("elapsed", time.Since(start)))
	return failed
}

func (s *BufferedTrackingService) runSyncLoop(ctx context.Context) {
	syncInterval := s.cfg.Current().SyncInterval()
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.syncWithServer(ctx); err != nil {
				s.log.Warn("sync with server failed", zap.Error(err))
			}
		}
	}
}

// syncWithServer pushes unsynced events and AFK spans to the server,
// marks what succeeded as synced, and garbage-collects rows already
// synced past the configured retention window.
func (s *BufferedTrackingService) syncWithServer(ctx context.Context) error {
	retention := s.cfg.Current().Retention()

	events, err := s.db.UnsyncedEvents()
	if err != nil {
		return err
	}
	if len(events) > 0 {
		if err := s.syncer.PostEvents(ctx, events); err != nil {
			s.log.Warn("posting events failed", zap.Error(err))
		} else {
			ids := make([]string, len(events))
			for i, e := range events {
				ids[i] = e.ID
			}
			if err := s.db.MarkEventsSynced(ids); err != nil {
				return err
			}
			s.log.Info("synced events", zap.Int("count", len(events)))
			if err := s.db.DeleteSyncedEvents(retention); err != nil {
				return err
			}
		}
	}

	afkEvents, err := s.db.UnsyncedAFKEvents()
	if err != nil {
		return err
	}
	if len(afkEvents) > 0 {
		if err := s.syncer.PostAFKEvents(ctx, afkEvents); err != nil {
			s.log.Warn("posting AFK events failed", zap.Error(err))
		} else {
			ids := make([]string, len(afkEvents))
			for i, e := range afkEvents {
				ids[i] = e.ID
			}
			if err := s.db.MarkAFKEventsSynced(ids); err != nil {
				return err
			}
			s.log.Info("synced AFK events", zap.Int("count", len(afkEvents)))
			if err := s.db.DeleteSyncedAFKEvents(retention); err != nil {
				return err
			}
		}
	}

	return nil
}
