package staff

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	workers map[uuid.UUID]*Worker
}

func newMockRepo() *mockRepo {
	return &mockRepo{workers: make(map[uuid.UUID]*Worker)}
}

func (m *mockRepo) Create(_ context.Context, w *Worker) error {
	w.ID = uuid.New()
	m.workers[w.ID] = w
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Worker, error) {
	w, ok := m.workers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

func (m *mockRepo) Update(_ context.Context, w *Worker) error {
	if _, ok := m.workers[w.ID]; !ok {
		return ErrNotFound
	}
	m.workers[w.ID] = w
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.workers[id]; !ok {
		return ErrNotFound
	}
	delete(m.workers, id)
	return nil
}

func (m *mockRepo) ListActive(_ context.Context) ([]*Worker, error) {
	var result []*Worker
	for _, w := range m.workers {
		if w.Active {
			result = append(result, w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Worker, int, error) {
	var result []*Worker
	for _, w := range m.workers {
		result = append(result, w)
	}
	return result, len(result), nil
}

// -- Tests --

func TestCreateWorker(t *testing.T) {
	svc := NewService(newMockRepo())

	w := &Worker{Name: "Alex", Position: 0, Active: true}
	if err := svc.Create(context.Background(), w); err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.ID == uuid.Nil {
		t.Error("expected ID assigned")
	}
}

func TestCreateWorker_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Worker{Position: 0}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Create(context.Background(), &Worker{Name: "X", Position: -1}); err == nil {
		t.Error("expected error for negative position")
	}
}

func TestListActive_OrderedByPosition(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	_ = svc.Create(context.Background(), &Worker{Name: "Second", Position: 2, Active: true})
	_ = svc.Create(context.Background(), &Worker{Name: "First", Position: 1, Active: true})
	_ = svc.Create(context.Background(), &Worker{Name: "Inactive", Position: 0, Active: false})

	items, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 active workers, got %d", len(items))
	}
	if items[0].Name != "First" || items[1].Name != "Second" {
		t.Errorf("expected position ordering, got %s, %s", items[0].Name, items[1].Name)
	}
}

func TestDeleteWorker_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Delete(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error deleting missing worker")
	}
}
