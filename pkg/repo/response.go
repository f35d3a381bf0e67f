package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

type ResponseRepository interface {
	CreateResponse(ctx context.Context, response models.FormResponse) (models.FormResponse, error)
	// ListResponses returns the responses of a form, newest first.
	ListResponses(ctx context.Context, formID string) ([]models.FormResponse, error)
}

type InMemoryResponseRepository struct {
	mu        sync.RWMutex
	responses map[string][]models.FormResponse
}

func NewInMemoryResponseRepository() *InMemoryResponseRepository {
	return &InMemoryResponseRepository{
		responses: make(map[string][]models.FormResponse),
	}
}

func (rr *InMemoryResponseRepository) CreateResponse(_ context.Context, response models.FormResponse) (models.FormResponse, error) {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	if response.SubmittedAt == "" {
		response.SubmittedAt = timestamp(time.Now())
	}
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.responses[response.FormID] = append(rr.responses[response.FormID], response)
	return response, nil
}

func (rr *InMemoryResponseRepository) ListResponses(_ context.Context, formID string) ([]models.FormResponse, error) {
	rr.mu.RLock()
	stored := rr.responses[formID]
	list := make([]models.FormResponse, len(stored))
	for i := range stored {
		list[len(stored)-1-i] = stored[i]
	}
	rr.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].SubmittedAt > list[j].SubmittedAt
	})
	return list, nil
}
