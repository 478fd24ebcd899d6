package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"cryptoguides-backend/internal/guide"
	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/repository"
	"cryptoguides-backend/internal/search"
	"cryptoguides-backend/internal/services"
)

// Pool consumes the guide-index queue: each item carries the canonical
// document published moments earlier, which gets projected into the local
// search index.
type Pool struct {
	redis       *redis.Client
	publisher   *services.PublisherService
	jobRepo     *repository.JobRepo
	index       *search.Index
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	publisher *services.PublisherService,
	jobRepo *repository.JobRepo,
	index *search.Index,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		publisher:   publisher,
		jobRepo:     jobRepo,
		index:       index,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d index worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Index worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPop with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, services.IndexQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}
		if len(result) < 2 {
			continue
		}

		var item models.IndexQueueItem
		if err := json.Unmarshal([]byte(result[1]), &item); err != nil {
			log.Printf("Index worker %d: failed to parse queue item: %v", id, err)
			continue
		}

		// One worker per job, even with duplicate queue entries.
		lockKey := fmt.Sprintf("job_lock:%s", item.JobID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		log.Printf("Index worker %d: indexing guide %s (job %s)", id, item.Slug, item.JobID)
		p.jobRepo.UpdateStatus(ctx, item.JobID, "processing")

		if err := p.process(&item); err != nil {
			p.jobRepo.MarkFailed(ctx, item.JobID, err.Error())
			p.publisher.PublishEvent(ctx, item.UserID, models.WSMessage{
				Type: "index_failed",
				Payload: models.IndexFailedEvent{
					JobID:        item.JobID,
					GuideSlug:    item.Slug,
					ErrorMessage: err.Error(),
				},
			})
			p.redis.Del(ctx, lockKey)
			continue
		}

		p.jobRepo.MarkCompleted(ctx, item.JobID)
		p.publisher.PublishEvent(ctx, item.UserID, models.WSMessage{
			Type: "index_completed",
			Payload: models.IndexCompletedEvent{
				JobID:     item.JobID,
				GuideSlug: item.Slug,
			},
		})
		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) process(item *models.IndexQueueItem) error {
	var doc guide.Document
	if err := json.Unmarshal(item.Document, &doc); err != nil {
		return fmt.Errorf("decode queued document: %w", err)
	}
	if err := p.index.IndexDocument(&doc); err != nil {
		return fmt.Errorf("index guide %s: %w", item.Slug, err)
	}
	return nil
}
