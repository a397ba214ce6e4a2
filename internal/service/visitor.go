package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"channel_sync/internal/domain"
	"channel_sync/internal/reconcile"
	"channel_sync/internal/remote/gist"
	"channel_sync/internal/schema"
)

// RecordView counts one view of a video or short. The local count always
// goes up by one; the shared counter is hit only on a visitor's first view of
// the item and its total then replaces the local count. Views never schedule
// a remote write.
func (s *ChannelService) RecordView(ctx context.Context, visitorID string, id int64) (int64, error) {
	s.writeMu.Lock()

	s.mu.Lock()
	views, found := incrementViews(s.doc, id)
	if !found {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return 0, domain.NewValidationError("id", "video not found")
	}
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	watched, err := s.cache.LoadWatched(ctx, visitorID)
	if err != nil {
		s.logger.Warn("failed to read watched ids", "visitor", visitorID, "error", err)
	}
	first := !slices.Contains(watched, id)
	if first {
		watched = append(watched, id)
	}
	if err := s.cache.SaveView(ctx, snapshot, visitorID, watched); err != nil {
		s.logger.Error("failed to cache view", "item_id", id, "error", err)
	}
	s.writeMu.Unlock()

	s.metrics.ObserveView(first)
	if !first || s.namespace == "" || s.counter == nil {
		return views, nil
	}

	total, err := s.counter.Hit(ctx, s.namespace, id)
	if err != nil {
		s.logger.Warn("could not increment shared view count", "item_id", id, "error", err)
		return views, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	setViews(s.doc, id, total)
	snapshot = s.doc.Clone()
	s.mu.Unlock()
	s.persist(ctx, snapshot)

	return total, nil
}

func incrementViews(doc *domain.ChannelDocument, id int64) (int64, bool) {
	var views int64
	found := false
	for _, list := range [][]domain.VideoItem{doc.Videos, doc.Shorts} {
		for i := range list {
			if list[i].ID == id {
				list[i].Views++
				views = max(views, list[i].Views)
				found = true
			}
		}
	}
	return views, found
}

func setViews(doc *domain.ChannelDocument, id, views int64) {
	for _, list := range [][]domain.VideoItem{doc.Videos, doc.Shorts} {
		for i := range list {
			if list[i].ID == id {
				list[i].Views = views
			}
		}
	}
}

// SubmitFeedback prepends a visitor rating to the live feedback gist. The
// local copy changes only after the gist accepted the write. Submissions are
// serialized so every gist write carries all earlier entries.
func (s *ChannelService) SubmitFeedback(ctx context.Context, rating int, comment string) (domain.FeedbackItem, error) {
	if rating < 1 || rating > 5 {
		return domain.FeedbackItem{}, domain.NewValidationError("rating", "rating must be between 1 and 5")
	}

	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()

	s.mu.Lock()
	settings := s.doc.FeedbackSyncSettings
	if !settings.Enabled() {
		s.mu.Unlock()
		s.emit(ctx, domain.NotifyError, domain.ErrFeedbackDisabled.Error())
		return domain.FeedbackItem{}, domain.ErrFeedbackDisabled
	}
	item := domain.FeedbackItem{
		ID:        s.nextIDLocked(s.doc),
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	updated := append([]domain.FeedbackItem{item}, s.doc.Feedback...)
	s.mu.Unlock()

	if err := s.writeFeedback(ctx, settings, updated); err != nil {
		s.emit(ctx, domain.NotifyError, fmt.Sprintf("failed to send feedback: %v", err))
		return domain.FeedbackItem{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.doc.Feedback = append([]domain.FeedbackItem{item}, s.doc.Feedback...)
	snapshot := s.doc.Clone()
	s.mu.Unlock()
	s.persist(ctx, snapshot)

	s.emit(ctx, domain.NotifySuccess, "thank you for your feedback")
	return item, nil
}

func (s *ChannelService) writeFeedback(ctx context.Context, settings domain.FeedbackSyncSettings, items []domain.FeedbackItem) error {
	if !settings.Enabled() {
		return domain.ErrFeedbackDisabled
	}
	feedbackID, ok := gist.GistID(settings.URL)
	if !ok {
		return domain.NewValidationError("feedbackSyncSettings.url", "invalid feedback gist url")
	}

	content, err := schema.EncodeFeedback(items)
	if err != nil {
		return err
	}
	if err := s.remote.ReplaceFirstFile(ctx, feedbackID, settings.Token, content); err != nil {
		return fmt.Errorf("update feedback gist: %w", err)
	}
	return nil
}

// Document returns a copy of the current document.
func (s *ChannelService) Document() *domain.ChannelDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Videos filters long-form videos by a case-insensitive title query and,
// when playlistID is non-zero, by playlist membership in playlist order.
func (s *ChannelService) Videos(query string, playlistID int64) ([]domain.VideoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	videos := s.doc.Videos
	if playlistID != 0 {
		var playlist *domain.PlaylistItem
		for i := range s.doc.Playlists {
			if s.doc.Playlists[i].ID == playlistID {
				playlist = &s.doc.Playlists[i]
				break
			}
		}
		if playlist == nil {
			return nil, domain.NewValidationError("playlist", "playlist not found")
		}
		byID := make(map[int64]domain.VideoItem, len(s.doc.Videos)+len(s.doc.Shorts))
		for _, v := range s.doc.Shorts {
			byID[v.ID] = v
		}
		for _, v := range s.doc.Videos {
			byID[v.ID] = v
		}
		videos = make([]domain.VideoItem, 0, len(playlist.VideoIDs))
		for _, id := range playlist.VideoIDs {
			if v, ok := byID[id]; ok {
				videos = append(videos, v)
			}
		}
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.VideoItem, 0, len(videos))
	for _, v := range videos {
		if query == "" || strings.Contains(strings.ToLower(v.Title), query) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *ChannelService) Shorts() []domain.VideoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.VideoItem{}, s.doc.Shorts...)
}

// NewVideoIDs returns ids added since the notifications were last dismissed.
func (s *ChannelService) NewVideoIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64{}, s.newItems...)
}

// DismissNotifications marks every current video and short as seen.
func (s *ChannelService) DismissNotifications(ctx context.Context) error {
	s.mu.Lock()
	s.seen = reconcile.MarkSeen(s.doc, s.seen)
	s.newItems = []int64{}
	seen := append([]int64(nil), s.seen...)
	s.mu.Unlock()

	if err := s.cache.SaveSeen(ctx, seen); err != nil {
		return fmt.Errorf("save seen ids: %w", err)
	}
	return nil
}

// Notifications returns recent notifications, newest first.
func (s *ChannelService) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Notification, len(s.notifications))
	for i, n := range s.notifications {
		out[len(out)-1-i] = n
	}
	return out
}
