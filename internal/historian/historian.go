// Package historian drains move records from the Redis queue and persists them in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Queue yields move records one at a time. ok is false when nothing arrived within timeout.
type Queue interface {
	Pop(ctx context.Context, timeout time.Duration) (rec models.MoveRecord, ok bool, err error)
}

// Sink is where batches end up.
type Sink interface {
	WriteMoves(ctx context.Context, records []models.MoveRecord) error
	MarkAbandoned(ctx context.Context, boardID uuid.UUID) error
}

// Options tune batching and the inactivity sweep.
type Options struct {
	BatchSize     int
	FlushDelay    time.Duration
	Inactivity    time.Duration // duration until a board is marked "abandoned"
	SweepInterval time.Duration
	PopTimeout    time.Duration
}

func (o *Options) setDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.FlushDelay <= 0 {
		o.FlushDelay = 500 * time.Millisecond
	}
	if o.Inactivity <= 0 {
		o.Inactivity = 10 * time.Minute
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = time.Minute
	}
	if o.PopTimeout <= 0 {
		o.PopTimeout = 3 * time.Second
	}
}

// Service encapsulates the queue + sink logic for capturing moves
// and marking boards abandoned when an inactivity threshold is reached.
type Service struct {
	queue  Queue
	sink   Sink
	opts   Options
	logger *logrus.Logger

	lastActivity sync.Map // map[uuid.UUID]time.Time

	batchMu sync.Mutex
	batch   []models.MoveRecord
}

func NewService(q Queue, s Sink, opts Options, logger *logrus.Logger) *Service {
	opts.setDefaults()
	return &Service{
		queue:  q,
		sink:   s,
		opts:   opts,
		logger: logger,
		batch:  make([]models.MoveRecord, 0, opts.BatchSize),
	}
}

// Run starts the read and inactivity loops and blocks until ctx is done.
// Whatever is still batched is flushed before Run returns.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.readLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.inactivityLoop(ctx)
	}()

	s.logger.Info("solitaire-historian started")
	<-ctx.Done()
	wg.Wait()
	s.Flush(context.WithoutCancel(ctx))
	s.logger.Info("solitaire-historian stopped")
}

// readLoop pops records, accumulates them and flushes on size or on the ticker.
func (s *Service) readLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		default:
			rec, ok, err := s.queue.Pop(ctx, s.opts.PopTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.WithError(err).Error("Queue pop failed")
				continue
			}
			if !ok {
				continue
			}
			s.lastActivity.Store(rec.BoardID, time.Now())
			if rec.ActionType == models.ActionBoardClosed {
				s.lastActivity.Delete(rec.BoardID)
			}
			s.append(ctx, rec)
		}
	}
}

// append adds a record to the batch and flushes once the threshold is reached.
func (s *Service) append(ctx context.Context, rec models.MoveRecord) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, rec)
	if len(s.batch) >= s.opts.BatchSize {
		s.flushLocked(ctx)
	}
}

// Flush writes the current batch to the sink.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.flushLocked(ctx)
}

func (s *Service) flushLocked(ctx context.Context) {
	if len(s.batch) == 0 {
		return
	}
	batchCopy := make([]models.MoveRecord, len(s.batch))
	copy(batchCopy, s.batch)
	s.batch = s.batch[:0]

	if err := s.sink.WriteMoves(ctx, batchCopy); err != nil {
		s.logger.WithError(err).WithField("count", len(batchCopy)).Error("Flush failed")
		return
	}
	s.logger.WithField("count", len(batchCopy)).Debug("Flushed moves")
}

// inactivityLoop periodically marks boards with no recent moves as abandoned.
func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, time.Now())
		}
	}
}

func (s *Service) sweep(ctx context.Context, now time.Time) {
	s.lastActivity.Range(func(key, val interface{}) bool {
		boardID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if ok1 && ok2 && now.Sub(last) > s.opts.Inactivity {
			// pending moves for the board must land before it is closed
			s.Flush(ctx)
			if err := s.sink.MarkAbandoned(ctx, boardID); err != nil {
				s.logger.WithError(err).Warn("Mark abandoned failed")
			} else {
				s.logger.WithField("board", boardID).Info("Marked board abandoned due to inactivity")
			}
			s.lastActivity.Delete(boardID)
		}
		return true
	})
}

// blPopper is the slice of *redis.Client the queue needs.
type blPopper interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisQueue pops JSON move records with BLPop.
type RedisQueue struct {
	Client blPopper
	Name   string
	Logger *logrus.Logger
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (models.MoveRecord, bool, error) {
	res, err := q.Client.BLPop(ctx, timeout, q.Name).Result()
	if errors.Is(err, redis.Nil) {
		return models.MoveRecord{}, false, nil
	}
	if err != nil {
		return models.MoveRecord{}, false, err
	}
	// res[0] is the queue name and res[1] the payload.
	if len(res) < 2 {
		return models.MoveRecord{}, false, nil
	}
	var rec models.MoveRecord
	if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
		if q.Logger != nil {
			q.Logger.WithError(err).Warn("Invalid move record")
		}
		return models.MoveRecord{}, false, nil
	}
	return rec, true, nil
}
