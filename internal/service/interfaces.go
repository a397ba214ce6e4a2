package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"channel_sync/internal/domain"
)

type DocumentStore interface {
	FetchLatest(ctx context.Context, rawURL string) ([]byte, error)
	FileNames(ctx context.Context, gistID, token string) ([]string, error)
	ReplaceDocument(ctx context.Context, gistID, token, filename string, content []byte) error
	ReplaceFirstFile(ctx context.Context, gistID, token string, content []byte) error
}

type CounterClient interface {
	Get(ctx context.Context, namespace string, itemID int64) (int64, error)
	Hit(ctx context.Context, namespace string, itemID int64) (int64, error)
}

type LocalCache interface {
	LoadDocument(ctx context.Context) (*domain.ChannelDocument, error)
	SaveDocument(ctx context.Context, doc *domain.ChannelDocument) error
	LoadCredentials(ctx context.Context) (*domain.Credentials, error)
	SaveCredentials(ctx context.Context, creds domain.Credentials) error
	LoadSyncToken(ctx context.Context) (string, error)
	SaveSyncToken(ctx context.Context, token string) error
	LoadFeedbackSettings(ctx context.Context) (*domain.FeedbackSyncSettings, error)
	SaveFeedbackSettings(ctx context.Context, settings domain.FeedbackSyncSettings) error
	LoadSeen(ctx context.Context) ([]int64, error)
	SaveSeen(ctx context.Context, ids []int64) error
	LoadWatched(ctx context.Context, visitorID string) ([]int64, error)
	SaveView(ctx context.Context, doc *domain.ChannelDocument, visitorID string, watched []int64) error
}

type SyncTrigger interface {
	Notify()
}

type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
	Close() error
}
