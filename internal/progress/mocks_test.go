package progress

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/XPEngine_Go/internal/domain"
	"github.com/osse101/XPEngine_Go/internal/event"
)

// MockRepository implements repository.Progress
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

func (m *MockRepository) CreateUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

func (m *MockRepository) ApplyXPEvent(ctx context.Context, evt *domain.XPEvent, claimPeriod string) (int64, int64, error) {
	args := m.Called(ctx, evt, claimPeriod)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) GetTopUsers(ctx context.Context, limit int) ([]domain.UserProgress, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserProgress), args.Error(1)
}

func (m *MockRepository) GetRecentEvents(ctx context.Context, userID string, limit int) ([]domain.XPEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.XPEvent), args.Error(1)
}

func (m *MockRepository) PruneClaims(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// recordingPublisher captures published events in order
type recordingPublisher struct {
	mu       sync.Mutex
	events   []event.Event
	shutdown bool
	err      error
}

func (p *recordingPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) Shutdown(ctx context.Context) error {
	p.shutdown = true
	return p.err
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
