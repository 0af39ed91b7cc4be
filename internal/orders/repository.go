package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already recorded")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is one pending publication, written in the same
// transaction as the order row it belongs to.
type OutboxEvent struct {
	ID          int
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type Repository interface {
	CreateOrderWithEvent(ctx context.Context, order *domain.Order, payload []byte) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int) error
	RunMigrations(cred *Credentials) error
	Close() error
}
