package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
)

const connectionsKeyPrefix = "connections:"

// connectionRecord is the stored form of a Connection, credential included.
type connectionRecord struct {
	Platform    model.Platform `json:"platform"`
	AccountID   string         `json:"accountId,omitempty"`
	PageID      string         `json:"pageId,omitempty"`
	Username    string         `json:"username"`
	AvatarURL   string         `json:"avatarUrl"`
	AccessToken string         `json:"accessToken,omitempty"`
	ExpiresAt   int64          `json:"expiresAt,omitempty"`
	IsConnected bool           `json:"isConnected"`
}

func toRecord(c model.Connection) connectionRecord {
	return connectionRecord{
		Platform:    c.Platform,
		AccountID:   c.AccountID,
		PageID:      c.PageID,
		Username:    c.Username,
		AvatarURL:   c.AvatarURL,
		AccessToken: c.AccessToken,
		ExpiresAt:   c.ExpiresAt,
		IsConnected: c.IsConnected,
	}
}

func (r connectionRecord) model() model.Connection {
	return model.Connection{
		Platform:    r.Platform,
		AccountID:   r.AccountID,
		PageID:      r.PageID,
		Username:    r.Username,
		AvatarURL:   r.AvatarURL,
		AccessToken: r.AccessToken,
		ExpiresAt:   r.ExpiresAt,
		IsConnected: r.IsConnected,
	}
}

type ConnectionRepository struct {
	kv repository.IKeyValue
}

func NewConnectionRepository(kv repository.IKeyValue) repository.IConnection {
	return &ConnectionRepository{kv: kv}
}

// List returns the stored connections of uid; an absent key is an empty list.
func (r *ConnectionRepository) List(ctx context.Context, uid string) ([]model.Connection, error) {
	raw, found, err := r.kv.Get(ctx, connectionsKeyPrefix+uid)
	if err != nil {
		return nil, err
	}
	connections := []model.Connection{}
	if !found || raw == "" {
		return connections, nil
	}
	var records []connectionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode connections of %s: %w", uid, err)
	}
	for _, rec := range records {
		connections = append(connections, rec.model())
	}
	return connections, nil
}

func (r *ConnectionRepository) Save(ctx context.Context, uid string, connections []model.Connection) error {
	records := make([]connectionRecord, 0, len(connections))
	for _, c := range connections {
		records = append(records, toRecord(c))
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, connectionsKeyPrefix+uid, string(raw))
}
