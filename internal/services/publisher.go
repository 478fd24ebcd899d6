package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cryptoguides-backend/internal/guide"
	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/repository"
)

const (
	IndexQueue       = "queue:guide-index"
	guideCachePrefix = "guide:"
	guideCacheTTL    = 5 * time.Minute
)

// PublisherService drives the two halves of the guide lifecycle that cross
// the service boundary: pushing an assembled document to the remote content
// API (plus queueing the local search-index job), and pulling a published
// document back into an authoring session.
type PublisherService struct {
	content *ContentClient
	jobRepo *repository.JobRepo
	redis   *redis.Client
}

func NewPublisherService(content *ContentClient, jobRepo *repository.JobRepo, redisClient *redis.Client) *PublisherService {
	return &PublisherService{
		content: content,
		jobRepo: jobRepo,
		redis:   redisClient,
	}
}

// finalizeForPublish stamps the identity and dates a document needs before
// it can be transmitted. The id is minted once and then stable across
// republishes, so the caller must persist the session back to its draft
// after a successful publish.
func finalizeForPublish(s *guide.Session, mode SaveMode, now string) {
	if s.Meta.ID == "" {
		s.Meta.ID = uuid.NewString()
	}
	if s.Meta.PublishedDate == "" || mode == SaveModeCreate {
		s.Meta.PublishedDate = now
	}
	s.Meta.UpdatedDate = now
}

// Publish finalizes timestamps, assembles the session snapshot, transmits
// it, and queues the index job. The session is mutated (id, dates) and the
// caller re-saves it to the draft; a failed remote write leaves nothing
// queued.
func (p *PublisherService) Publish(ctx context.Context, userID uuid.UUID, s *guide.Session, mode SaveMode) (*guide.Document, *models.IndexJob, error) {
	finalizeForPublish(s, mode, time.Now().UTC().Format(time.RFC3339))

	doc := guide.Assemble(s)
	if err := p.content.SaveGuide(ctx, doc, mode); err != nil {
		return nil, nil, err
	}

	// The remote copy changed; a cached fetch would now be stale.
	p.redis.Del(ctx, guideCachePrefix+doc.Slug)

	job := &models.IndexJob{
		UserID:    userID,
		GuideSlug: doc.Slug,
		Status:    "queued",
	}
	if err := p.jobRepo.Create(ctx, job); err != nil {
		return nil, nil, err
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, err
	}
	item := models.IndexQueueItem{
		JobID:    job.ID,
		UserID:   userID,
		Slug:     doc.Slug,
		Document: docBytes,
	}
	itemBytes, _ := json.Marshal(item)
	if err := p.redis.LPush(ctx, IndexQueue, string(itemBytes)).Err(); err != nil {
		log.Printf("publish: failed to enqueue index job %s: %v", job.ID, err)
	}

	return doc, job, nil
}

// Import fetches a published guide (through a short-lived cache) and
// hydrates it into a fresh authoring session. On any failure the caller's
// state is untouched: either a full session comes back or none does.
func (p *PublisherService) Import(ctx context.Context, slug string) (*guide.Session, error) {
	doc, err := p.fetchCached(ctx, slug)
	if err != nil {
		return nil, err
	}

	session, err := guide.Hydrate(doc)
	if err != nil {
		if malformed, ok := err.(*guide.MalformedDocumentError); ok {
			return nil, &MalformedResponseError{Reason: malformed.Reason}
		}
		return nil, err
	}
	return session, nil
}

func (p *PublisherService) fetchCached(ctx context.Context, slug string) (*guide.Document, error) {
	key := guideCachePrefix + slug
	if cached, err := p.redis.Get(ctx, key).Result(); err == nil {
		var doc guide.Document
		if err := json.Unmarshal([]byte(cached), &doc); err == nil {
			return &doc, nil
		}
		// A cache entry that no longer decodes is dropped, not trusted.
		p.redis.Del(ctx, key)
	}

	doc, err := p.content.FetchGuide(ctx, slug)
	if err != nil {
		return nil, err
	}

	if docBytes, err := json.Marshal(doc); err == nil {
		p.redis.Set(ctx, key, string(docBytes), guideCacheTTL)
	}
	return doc, nil
}

// PublishEvent pushes an editor-facing event onto the user's pub/sub
// channel; the WebSocket hub fans it out to connected editors.
func (p *PublisherService) PublishEvent(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := p.redis.Publish(ctx, "editor_updates:"+userID.String(), string(data)).Err(); err != nil {
		log.Printf("publish event: %v", err)
	}
}
