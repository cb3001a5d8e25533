package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a client does not exist.
var ErrNotFound = errors.New("client not found")

type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Client, int, error)
}
