package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"channel_sync/internal/domain"
	"channel_sync/internal/metrics"
	"channel_sync/internal/reconcile"
	"channel_sync/internal/remote/counter"
	"channel_sync/internal/remote/gist"
	"channel_sync/internal/schema"
)

const (
	msgStillWaiting   = "the connection seems slow, still waiting for the latest content"
	msgUpdateFailed   = "failed to load the latest updates"
	msgFeedbackFailed = "failed to load live feedback"
	msgNoSource       = "the channel data source is not configured"
)

type Config struct {
	RawURL              string
	Filename            string
	CounterPrefix       string
	ExportPrefix        string
	LiveViewDelay       time.Duration
	LiveViewConcurrency int
	NotificationLimit   int
	DefaultCredentials  domain.Credentials
}

type ChannelService struct {
	remote    DocumentStore
	counter   CounterClient
	cache     LocalCache
	publisher Publisher
	trigger   SyncTrigger
	codec     *schema.Codec
	metrics   *metrics.Metrics
	logger    *slog.Logger
	config    Config

	gistOwner string
	gistID    string
	namespace string

	// writeMu orders mutations with their cache writes; mu guards the fields below.
	// feedbackMu serializes read-modify-write cycles against the feedback gist.
	writeMu    sync.Mutex
	feedbackMu sync.Mutex
	mu         sync.RWMutex

	doc           *domain.ChannelDocument
	hasContent    bool
	creds         domain.Credentials
	syncToken     string
	loggedIn      bool
	seen          []int64
	newItems      []int64
	boot          domain.BootState
	notifications []domain.Notification
	lastID        int64
	fetched       bool
	// revision counts admin edits; syncedRevision is the last one the gist accepted.
	revision       uint64
	syncedRevision uint64

	liveViewsOnce sync.Once
	bg            sync.WaitGroup
	now           func() time.Time
}

func NewChannelService(
	remote DocumentStore,
	counterClient CounterClient,
	cache LocalCache,
	publisher Publisher,
	codec *schema.Codec,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) *ChannelService {
	if cfg.NotificationLimit <= 0 {
		cfg.NotificationLimit = 50
	}
	if cfg.LiveViewConcurrency <= 0 {
		cfg.LiveViewConcurrency = 8
	}

	s := &ChannelService{
		remote:    remote,
		counter:   counterClient,
		cache:     cache,
		publisher: publisher,
		codec:     codec,
		metrics:   m,
		logger:    logger.With("component", "channel"),
		config:    cfg,
		creds:     cfg.DefaultCredentials,
		seen:      []int64{},
		newItems:  []int64{},
		boot:      domain.BootState{Phase: domain.BootLoading},
		now:       time.Now,
	}

	s.doc = &domain.ChannelDocument{AdSettings: codec.DefaultAdSettings()}
	s.doc.Normalize()

	if owner, id, ok := gist.ParseURL(cfg.RawURL); ok {
		s.gistOwner = owner
		s.gistID = id
		s.namespace = counter.Namespace(cfg.CounterPrefix, id)
	} else if cfg.RawURL != "" {
		s.logger.Warn("raw url is not a gist url, sync and view counters disabled", "url", cfg.RawURL)
	}

	return s
}

// SetSyncTrigger wires the debounced writer notified after admin edits.
func (s *ChannelService) SetSyncTrigger(t SyncTrigger) {
	s.trigger = t
}

// Bootstrap loads local settings and the cached document, then refreshes it
// from the remote store. It may be called again to retry after a failure.
func (s *ChannelService) Bootstrap(ctx context.Context) (*domain.SyncStats, error) {
	startTime := s.now()
	stats := &domain.SyncStats{Source: s.config.RawURL}

	s.loadSettings(ctx)

	if !s.HasContent() {
		cached, err := s.cache.LoadDocument(ctx)
		if err != nil {
			s.logger.Warn("failed to read cached document", "error", err)
		}
		if cached != nil {
			s.applyCached(ctx, cached)
			stats.FromCache = true
			s.logger.Info("applied cached document", "videos", len(cached.Videos), "shorts", len(cached.Shorts))
		}
	}

	if s.config.RawURL == "" {
		if !s.HasContent() {
			s.setBoot(domain.BootState{Phase: domain.BootError, Message: msgNoSource})
		}
		return stats, domain.ErrNoSyncTarget
	}

	remoteDoc, err := s.fetchDocument(ctx)
	if err != nil {
		s.handleFetchError(ctx, err)
		if s.HasContent() {
			s.startLiveViews(ctx)
		}
		stats.Duration = s.now().Sub(startTime)
		return stats, fmt.Errorf("fetch document: %w", err)
	}

	s.writeMu.Lock()
	s.mu.Lock()
	var local *domain.ChannelDocument
	if s.hasContent {
		local = s.doc
	}
	unsynced := local != nil && s.revision != s.syncedRevision
	merged := local
	if unsynced {
		s.logger.Warn("keeping unsynced local edits, remote document not merged", "revision", s.revision)
	} else {
		merged = reconcile.Merge(local, remoteDoc)
		if local != nil {
			stats.ViewsRaised = countRaised(remoteDoc, merged)
		}
	}
	s.doc = merged
	s.hasContent = true
	s.fetched = true
	s.boot = domain.BootState{Phase: domain.BootReady}
	s.newItems = reconcile.NewItems(merged, s.seen)
	snapshot := merged.Clone()
	stats.Fetched = true
	stats.Videos = len(merged.Videos)
	stats.Shorts = len(merged.Shorts)
	stats.NewItems = len(s.newItems)
	s.mu.Unlock()
	s.persist(ctx, snapshot)
	s.writeMu.Unlock()

	s.refreshFeedback(ctx)
	s.startLiveViews(ctx)

	stats.Duration = s.now().Sub(startTime)
	s.logger.Info("bootstrap completed",
		"from_cache", stats.FromCache,
		"videos", stats.Videos,
		"shorts", stats.Shorts,
		"new_items", stats.NewItems,
		"views_raised", stats.ViewsRaised,
		"duration", stats.Duration,
	)

	return stats, nil
}

// Retry re-runs Bootstrap only while the remote document has not been
// loaded yet. Once it has, the current state is reported without a fetch.
func (s *ChannelService) Retry(ctx context.Context) (*domain.SyncStats, error) {
	s.mu.RLock()
	ready := s.fetched && s.boot.Phase == domain.BootReady
	stats := &domain.SyncStats{
		Source: s.config.RawURL,
		Videos: len(s.doc.Videos),
		Shorts: len(s.doc.Shorts),
	}
	stats.NewItems = len(s.newItems)
	s.mu.RUnlock()

	if ready {
		s.logger.Debug("retry skipped, remote document already loaded")
		return stats, nil
	}
	return s.Bootstrap(ctx)
}

func (s *ChannelService) loadSettings(ctx context.Context) {
	creds, err := s.cache.LoadCredentials(ctx)
	if err != nil {
		s.logger.Warn("failed to read credentials", "error", err)
	}
	token, err := s.cache.LoadSyncToken(ctx)
	if err != nil {
		s.logger.Warn("failed to read sync token", "error", err)
	}
	seen, err := s.cache.LoadSeen(ctx)
	if err != nil {
		s.logger.Warn("failed to read seen ids", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if creds != nil {
		s.creds = *creds
	}
	s.syncToken = token
	if seen != nil {
		s.seen = seen
	}
}

func (s *ChannelService) applyCached(ctx context.Context, cached *domain.ChannelDocument) {
	feedbackSettings, err := s.cache.LoadFeedbackSettings(ctx)
	if err != nil {
		s.logger.Warn("failed to read feedback settings", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if feedbackSettings != nil && cached.FeedbackSyncSettings.URL == "" {
		cached.FeedbackSyncSettings = *feedbackSettings
	}
	s.doc = cached
	s.hasContent = true
	s.boot = domain.BootState{Phase: domain.BootReady}
	s.newItems = reconcile.NewItems(cached, s.seen)
}

func (s *ChannelService) fetchDocument(ctx context.Context) (*domain.ChannelDocument, error) {
	data, err := s.remote.FetchLatest(ctx, s.config.RawURL)
	s.metrics.ObserveFetch("document", err)
	if err != nil {
		return nil, err
	}
	return s.codec.Decode(data)
}

func (s *ChannelService) handleFetchError(ctx context.Context, err error) {
	hasContent := s.HasContent()
	s.logger.Error("failed to fetch document", "error", err, "has_cache", hasContent)

	switch {
	case errors.Is(err, domain.ErrTimeout) && hasContent:
		s.emit(ctx, domain.NotifyInfo, msgStillWaiting)
	case errors.Is(err, domain.ErrTimeout):
		s.setBoot(domain.BootState{Phase: domain.BootLoading, Message: msgStillWaiting, TimedOut: true})
	case hasContent:
		s.emit(ctx, domain.NotifyError, msgUpdateFailed)
	default:
		s.setBoot(domain.BootState{Phase: domain.BootError, Message: err.Error()})
	}
}

// refreshFeedback replaces the feedback backup with the live feedback gist.
func (s *ChannelService) refreshFeedback(ctx context.Context) {
	s.mu.RLock()
	feedbackURL := s.doc.FeedbackSyncSettings.URL
	s.mu.RUnlock()
	if feedbackURL == "" {
		return
	}

	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()

	items, err := s.fetchFeedback(ctx, feedbackURL)
	s.metrics.ObserveFetch("feedback", err)
	if err != nil {
		s.logger.Warn("failed to load live feedback, keeping backup", "error", err)
		s.emit(ctx, domain.NotifyError, msgFeedbackFailed)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.doc.Feedback = items
	snapshot := s.doc.Clone()
	s.mu.Unlock()
	s.persist(ctx, snapshot)

	s.logger.Info("loaded live feedback", "count", len(items))
}

func (s *ChannelService) fetchFeedback(ctx context.Context, feedbackURL string) ([]domain.FeedbackItem, error) {
	feedbackID, ok := gist.GistID(feedbackURL)
	if !ok {
		return nil, domain.NewValidationError("feedbackSyncSettings.url", "invalid feedback gist url")
	}
	if s.gistOwner == "" {
		return nil, domain.ErrNoSyncTarget
	}

	data, err := s.remote.FetchLatest(ctx, gist.RawURL(s.gistOwner, feedbackID))
	if err != nil {
		return nil, err
	}
	return schema.DecodeFeedback(data)
}

func (s *ChannelService) startLiveViews(ctx context.Context) {
	if s.namespace == "" || s.counter == nil {
		return
	}
	s.liveViewsOnce.Do(func() {
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()

			timer := time.NewTimer(s.config.LiveViewDelay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			s.RefreshLiveViews(ctx)
		}()
	})
}

// RefreshLiveViews raises local view counts to the shared counter totals and
// reports how many items changed. Counter errors count as zero.
func (s *ChannelService) RefreshLiveViews(ctx context.Context) int {
	s.mu.RLock()
	ids := uniqueIDs(s.doc.AllVideoIDs())
	s.mu.RUnlock()
	if len(ids) == 0 {
		return 0
	}

	counts := make(map[int64]int64, len(ids))
	countsMu := sync.Mutex{}

	p := pool.New().WithMaxGoroutines(s.config.LiveViewConcurrency)
	for _, id := range ids {
		p.Go(func() {
			value, err := s.counter.Get(ctx, s.namespace, id)
			if err != nil {
				s.logger.Debug("live view count unavailable", "item_id", id, "error", err)
				value = 0
			}
			countsMu.Lock()
			counts[id] = value
			countsMu.Unlock()
		})
	}
	p.Wait()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	raised := reconcile.RaiseViews(s.doc.Videos, counts) + reconcile.RaiseViews(s.doc.Shorts, counts)
	var snapshot *domain.ChannelDocument
	if raised > 0 {
		snapshot = s.doc.Clone()
	}
	s.mu.Unlock()

	if snapshot != nil {
		s.persist(ctx, snapshot)
	}
	s.logger.Info("live view counts applied", "items", len(ids), "raised", raised)
	return raised
}

// WriteSnapshot pushes the current document to the canonical gist file.
// The outcome is reported as a notification; failures leave local state alone.
func (s *ChannelService) WriteSnapshot(ctx context.Context) error {
	s.mu.RLock()
	snapshot := s.doc.Clone()
	token := s.syncToken
	revision := s.revision
	s.mu.RUnlock()

	if token == "" || s.gistID == "" {
		return domain.ErrNoSyncTarget
	}

	content, err := s.codec.Encode(snapshot)
	if err != nil {
		return err
	}

	start := s.now()
	err = s.remote.ReplaceDocument(ctx, s.gistID, token, s.config.Filename, content)
	s.metrics.ObserveWrite(err, s.now().Sub(start))
	if err != nil {
		s.emit(ctx, domain.NotifyError, fmt.Sprintf("sync failed: %v", err))
		return fmt.Errorf("replace document: %w", err)
	}

	s.mu.Lock()
	s.syncedRevision = max(s.syncedRevision, revision)
	s.mu.Unlock()

	s.emit(ctx, domain.NotifySuccess, "synced successfully")
	return nil
}

// Wait blocks until background work started by Bootstrap has finished.
func (s *ChannelService) Wait() {
	s.bg.Wait()
}

func (s *ChannelService) BootState() domain.BootState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boot
}

func (s *ChannelService) HasContent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasContent
}

func (s *ChannelService) setBoot(state domain.BootState) {
	s.mu.Lock()
	s.boot = state
	s.mu.Unlock()
}

// persist writes a snapshot to the local cache. Failures are logged only.
func (s *ChannelService) persist(ctx context.Context, snapshot *domain.ChannelDocument) {
	if err := s.cache.SaveDocument(ctx, snapshot); err != nil {
		s.logger.Error("failed to cache document", "error", err)
	}
	s.metrics.SetItems(len(snapshot.Videos), len(snapshot.Shorts), len(snapshot.Playlists))
}

func (s *ChannelService) emit(ctx context.Context, kind domain.NotificationKind, text string) {
	n := domain.Notification{Kind: kind, Text: text, CreatedAt: s.now()}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	if over := len(s.notifications) - s.config.NotificationLimit; over > 0 {
		s.notifications = append([]domain.Notification(nil), s.notifications[over:]...)
	}
	s.mu.Unlock()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Warn("failed to publish notification", "kind", kind, "error", err)
	}
}

func countRaised(remote, merged *domain.ChannelDocument) int {
	raised := 0
	for i := range merged.Videos {
		if merged.Videos[i].Views > remote.Videos[i].Views {
			raised++
		}
	}
	for i := range merged.Shorts {
		if merged.Shorts[i].Views > remote.Shorts[i].Views {
			raised++
		}
	}
	return raised
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
