// Package cache persists the channel document and device-local settings
// across restarts on top of a key/value backend.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"channel_sync/internal/domain"
	"channel_sync/internal/schema"
)

const (
	KeyContent          = "content"
	KeyCredentials      = "credentials"
	KeySyncToken        = "sync_token"
	KeyFeedbackSettings = "feedback_sync_settings"
	KeySeenVideos       = "seen_video_ids"
	keyWatchedPrefix    = "watched:"
)

// KV is the backend contract. Get reports found=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	kv     KV
	codec  *schema.Codec
	logger *slog.Logger
}

func NewStore(kv KV, codec *schema.Codec, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		codec:  codec,
		logger: logger.With("component", "cache"),
	}
}

// LoadDocument returns the cached document, or nil when there is none.
// A stored value that no longer decodes is removed and treated as absent.
func (s *Store) LoadDocument(ctx context.Context) (*domain.ChannelDocument, error) {
	data, found, err := s.kv.Get(ctx, KeyContent)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if !found {
		return nil, nil
	}

	doc, err := s.codec.Decode(data)
	if err != nil {
		s.discard(ctx, KeyContent, err)
		return nil, nil
	}
	return doc, nil
}

func (s *Store) SaveDocument(ctx context.Context, doc *domain.ChannelDocument) error {
	data, err := s.codec.Encode(doc)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyContent, data); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *Store) LoadCredentials(ctx context.Context) (*domain.Credentials, error) {
	var creds domain.Credentials
	found, err := s.loadJSON(ctx, KeyCredentials, &creds)
	if err != nil || !found {
		return nil, err
	}
	return &creds, nil
}

func (s *Store) SaveCredentials(ctx context.Context, creds domain.Credentials) error {
	return s.saveJSON(ctx, KeyCredentials, creds)
}

// LoadSyncToken returns "" when no token has been configured.
func (s *Store) LoadSyncToken(ctx context.Context) (string, error) {
	data, found, err := s.kv.Get(ctx, KeySyncToken)
	if err != nil {
		return "", fmt.Errorf("load sync token: %w", err)
	}
	if !found {
		return "", nil
	}
	return string(data), nil
}

func (s *Store) SaveSyncToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, KeySyncToken, []byte(token)); err != nil {
		return fmt.Errorf("save sync token: %w", err)
	}
	return nil
}

func (s *Store) LoadFeedbackSettings(ctx context.Context) (*domain.FeedbackSyncSettings, error) {
	var settings domain.FeedbackSyncSettings
	found, err := s.loadJSON(ctx, KeyFeedbackSettings, &settings)
	if err != nil || !found {
		return nil, err
	}
	return &settings, nil
}

func (s *Store) SaveFeedbackSettings(ctx context.Context, settings domain.FeedbackSyncSettings) error {
	return s.saveJSON(ctx, KeyFeedbackSettings, settings)
}

func (s *Store) LoadSeen(ctx context.Context) ([]int64, error) {
	return s.loadIDs(ctx, KeySeenVideos)
}

func (s *Store) SaveSeen(ctx context.Context, ids []int64) error {
	return s.saveJSON(ctx, KeySeenVideos, ids)
}

func (s *Store) LoadWatched(ctx context.Context, visitorID string) ([]int64, error) {
	return s.loadIDs(ctx, WatchedKey(visitorID))
}

// SaveView stores the document together with a visitor's watched set.
func (s *Store) SaveView(ctx context.Context, doc *domain.ChannelDocument, visitorID string, watched []int64) error {
	content, err := s.codec.Encode(doc)
	if err != nil {
		return err
	}
	ids, err := json.Marshal(nonNil(watched))
	if err != nil {
		return fmt.Errorf("encode watched ids: %w", err)
	}

	err = s.kv.SetMany(ctx, map[string][]byte{
		KeyContent:            content,
		WatchedKey(visitorID): ids,
	})
	if err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}

func WatchedKey(visitorID string) string {
	return keyWatchedPrefix + visitorID
}

func (s *Store) loadIDs(ctx context.Context, key string) ([]int64, error) {
	var ids []int64
	if _, err := s.loadJSON(ctx, key, &ids); err != nil {
		return nil, err
	}
	return nonNil(ids), nil
}

func (s *Store) loadJSON(ctx context.Context, key string, out any) (bool, error) {
	data, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.discard(ctx, key, fmt.Errorf("%w: %v", domain.ErrMalformedData, err))
		return false, nil
	}
	return true, nil
}

func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) discard(ctx context.Context, key string, cause error) {
	s.logger.Warn("discarding corrupt cache entry", "key", key, "error", cause)
	if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("failed to delete corrupt cache entry", "key", key, "error", err)
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
