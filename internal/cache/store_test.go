package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channel_sync/internal/domain"
	"channel_sync/internal/schema"
	"channel_sync/internal/storage/memory"
)

func newTestStore() (*Store, *memory.KVStore) {
	kv := memory.NewKVStore()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	codec := schema.NewCodec(schema.Defaults{ChannelDescription: "desc", CtaText: "cta"})
	return NewStore(kv, codec, logger), kv
}

func TestStore_DocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	doc, err := store.LoadDocument(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)

	saved := &domain.ChannelDocument{
		Videos:             []domain.VideoItem{{ID: 1, Title: "a", Views: 4}},
		ChannelDescription: "mine",
	}
	require.NoError(t, store.SaveDocument(ctx, saved))

	loaded, err := store.LoadDocument(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Videos, loaded.Videos)
	assert.Equal(t, "mine", loaded.ChannelDescription)
	assert.Equal(t, domain.CurrentSchemaVersion, loaded.SchemaVersion)
}

func TestStore_CorruptDocumentIsRemoved(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore()

	require.NoError(t, kv.Set(ctx, KeyContent, []byte(`{"videos": [`)))

	doc, err := store.LoadDocument(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)

	_, found, err := kv.Get(ctx, KeyContent)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CorruptSeenIsRemoved(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore()

	require.NoError(t, kv.Set(ctx, KeySeenVideos, []byte(`not json`)))

	seen, err := store.LoadSeen(ctx)
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, found, _ := kv.Get(ctx, KeySeenVideos)
	assert.False(t, found)
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	creds, err := store.LoadCredentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, store.SaveCredentials(ctx, domain.Credentials{Username: "u", Password: "p"}))
	creds, err = store.LoadCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.Credentials{Username: "u", Password: "p"}, creds)

	token, err := store.LoadSyncToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SaveSyncToken(ctx, "ghp_x"))
	token, err = store.LoadSyncToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghp_x", token)

	settings := domain.FeedbackSyncSettings{URL: "https://gist.github.com/u/abc", Token: "t"}
	require.NoError(t, store.SaveFeedbackSettings(ctx, settings))
	loaded, err := store.LoadFeedbackSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, &settings, loaded)
}

func TestStore_SaveView(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	doc := &domain.ChannelDocument{Videos: []domain.VideoItem{{ID: 7, Views: 1}}}
	require.NoError(t, store.SaveView(ctx, doc, "visitor-1", []int64{7}))

	watched, err := store.LoadWatched(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, watched)

	other, err := store.LoadWatched(ctx, "visitor-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	loaded, err := store.LoadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Videos[0].Views)
}

type failingKV struct{ *memory.KVStore }

func (failingKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func TestStore_BackendErrorsPropagate(t *testing.T) {
	store, _ := newTestStore()
	store.kv = failingKV{memory.NewKVStore()}

	_, err := store.LoadDocument(context.Background())
	assert.ErrorContains(t, err, "load document")
}
