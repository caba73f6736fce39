package operation

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for operation and edge persistence. The
// DAG is only ever walked transactionally, so there is no in-memory pointer
// graph: both directions go through indexed edge lookups.
type Repository interface {
	// FindByID finds an operation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Operation, error)

	// Save creates or updates an operation
	Save(ctx context.Context, op *Operation) error

	// Delete deletes an operation node
	Delete(ctx context.Context, id uuid.UUID) error

	// Followers returns the operations directly following the given one
	Followers(ctx context.Context, id uuid.UUID) ([]Operation, error)

	// Follows returns the operations the given one directly follows
	Follows(ctx context.Context, id uuid.UUID) ([]Operation, error)

	// LinkFollows records that the operation follows each of the parents
	LinkFollows(ctx context.Context, id uuid.UUID, parentIDs []uuid.UUID) error

	// ClearFollows detaches the operation from all of its predecessors
	ClearFollows(ctx context.Context, id uuid.UUID) error
}
