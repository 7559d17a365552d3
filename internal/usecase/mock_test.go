//go:build !integration

// File: internal/usecase/mock_test.go
package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/adapter"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

// rec builds a test record with a report date of 2025-08-<day> UTC.
func rec(id string, day int) *model.RecallRecord {
	return &model.RecallRecord{
		ID:                 id,
		ReportDate:         time.Date(2025, time.August, day, 0, 0, 0, 0, time.UTC),
		ProductDescription: "product " + id,
		ReasonForRecall:    "reason " + id,
		RecallingFirm:      "firm " + id,
	}
}

// =============================
// Adapters
// =============================

// ---- Mock RecallSource ----

type MockSource struct {
	mu      sync.Mutex
	Page    []*model.RecallRecord // default page served newest first
	Fetches int

	FetchRecentFunc func(ctx context.Context, limit int) ([]*model.RecallRecord, error)
}

var _ adapter.RecallSource = (*MockSource)(nil)

func (m *MockSource) Name() string { return "mock-source" }

func (m *MockSource) FetchRecent(ctx context.Context, limit int) ([]*model.RecallRecord, error) {
	m.mu.Lock()
	m.Fetches++
	m.mu.Unlock()
	if m.FetchRecentFunc != nil {
		return m.FetchRecentFunc(ctx, limit)
	}
	if limit < len(m.Page) {
		return m.Page[:limit], nil
	}
	return m.Page, nil
}

// ---- Mock ChatNotifier ----

type MockNotifier struct {
	mu   sync.Mutex
	Sent []model.NotificationMessage

	PostFunc func(ctx context.Context, msg model.NotificationMessage) error
}

var _ adapter.ChatNotifier = (*MockNotifier)(nil)

func (m *MockNotifier) Name() string { return "mock-chat" }

func (m *MockNotifier) Post(ctx context.Context, msg model.NotificationMessage) error {
	if m.PostFunc != nil {
		if err := m.PostFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MockNotifier) SentIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.Sent))
	for i, s := range m.Sent {
		ids[i] = s.RecallID
	}
	return ids
}

// =============================
// Repositories
// =============================

// ---- In-memory MarkerRepository with CAS semantics ----

type MockMarkerRepo struct {
	mu      sync.Mutex
	current *model.Marker
	History []*model.Marker // every accepted Advance, in order

	LoadFunc    func(ctx context.Context) (*model.Marker, error)
	AdvanceFunc func(ctx context.Context, prev, next *model.Marker) error
}

var _ repository.MarkerRepository = (*MockMarkerRepo)(nil)

func (m *MockMarkerRepo) Load(ctx context.Context) (*model.Marker, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, nil
}

func (m *MockMarkerRepo) Advance(ctx context.Context, prev, next *model.Marker) error {
	if m.AdvanceFunc != nil {
		return m.AdvanceFunc(ctx, prev, next)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.current.Equal(prev) {
		return domain.ErrMarkerConflict
	}
	m.current = next
	m.History = append(m.History, next)
	return nil
}

// Set seeds the stored marker without going through CAS.
func (m *MockMarkerRepo) Set(marker *model.Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = marker
}

func (m *MockMarkerRepo) Current() *model.Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// ---- In-memory RunLocker ----

type MockLocker struct {
	mu   sync.Mutex
	held map[string]string

	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

var _ repository.RunLocker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if l.TryLockFunc != nil {
		return l.TryLockFunc(ctx, key, ttl)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if tok, ok := l.held[key]; ok && tok != "" {
		return "", domain.ErrRunInProgress
	}
	tok := uuid.NewString()
	l.held[key] = tok
	return tok, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return domain.ErrNotFound
}

// Hold marks the lock as taken by somebody else.
func (l *MockLocker) Hold(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[key] = "someone-else"
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
