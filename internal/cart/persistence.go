package cart

import (
	"context"
	"time"
)

// Snapshot is the durable form of the cart: the item sequence plus the
// timestamp of the last mutation. Selection and payment staging are session
// state and are not persisted.
type Snapshot struct {
	Items         []Item    `json:"items"`
	LastMutatedAt time.Time `json:"last_mutated_at"`
}

// Persistence stores at most one cart snapshot per owner. Load returns nil
// when no snapshot exists.
type Persistence interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	Clear(ctx context.Context) error
}
