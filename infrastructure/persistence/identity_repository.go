package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
)

const identityKeyPrefix = "identity:"

type IdentityRepository struct {
	kv repository.IKeyValue
}

func NewIdentityRepository(kv repository.IKeyValue) repository.IIdentity {
	return &IdentityRepository{kv: kv}
}

// Get returns nil without error when no identity is stored for uid.
func (r *IdentityRepository) Get(ctx context.Context, uid string) (*model.User, error) {
	raw, found, err := r.kv.Get(ctx, identityKeyPrefix+uid)
	if err != nil || !found {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode identity of %s: %w", uid, err)
	}
	return &user, nil
}

func (r *IdentityRepository) Save(ctx context.Context, user model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, identityKeyPrefix+user.UID, string(raw))
}

func (r *IdentityRepository) Delete(ctx context.Context, uid string) error {
	return r.kv.Delete(ctx, identityKeyPrefix+uid)
}
