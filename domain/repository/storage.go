package repository

import (
	"context"

	"nova-studio/domain/model"
)

// IKeyValue is the flat key-value persistence layer. Values are serialized JSON blobs.
// Get reports found=false for an absent key; that is not an error.
type IKeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// IConnection stores the ordered connection list of one user.
type IConnection interface {
	List(ctx context.Context, uid string) ([]model.Connection, error)
	Save(ctx context.Context, uid string, connections []model.Connection) error
}

// IIdentity stores the logged-in user record.
type IIdentity interface {
	Get(ctx context.Context, uid string) (*model.User, error)
	Save(ctx context.Context, user model.User) error
	Delete(ctx context.Context, uid string) error
}
