package clients

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	clients map[uuid.UUID]*Client
}

func newMockRepo() *mockRepo {
	return &mockRepo{clients: make(map[uuid.UUID]*Client)}
}

func (m *mockRepo) Create(_ context.Context, c *Client) error {
	c.ID = uuid.New()
	m.clients[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) Update(_ context.Context, c *Client) error {
	if _, ok := m.clients[c.ID]; !ok {
		return ErrNotFound
	}
	m.clients[c.ID] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Client, int, error) {
	var result []*Client
	for _, c := range m.clients {
		result = append(result, c)
	}
	return result, len(result), nil
}

func TestCreateClient(t *testing.T) {
	svc := NewService(newMockRepo())

	c := &Client{FullName: "Maria Ivanova"}
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("expected ID assigned")
	}
}

func TestCreateClient_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Client{}); err == nil {
		t.Fatal("expected error for missing full_name")
	}
}

func TestGetClient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Get(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for missing client")
	}
}
