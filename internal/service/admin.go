package service

import (
	"context"
	"fmt"
	"strings"

	"channel_sync/internal/domain"
	"channel_sync/internal/reconcile"
	"channel_sync/internal/remote/gist"
)

// Login starts the admin session when the credentials match.
func (s *ChannelService) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	ok := username == s.creds.Username && password == s.creds.Password
	if ok {
		s.loggedIn = true
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("admin login rejected", "username", username)
		return fmt.Errorf("login: %w", domain.ErrUnauthorized)
	}
	s.emit(ctx, domain.NotifySuccess, "logged in")
	return nil
}

func (s *ChannelService) Logout(ctx context.Context) {
	s.mu.Lock()
	wasLoggedIn := s.loggedIn
	s.loggedIn = false
	s.mu.Unlock()

	if wasLoggedIn {
		s.emit(ctx, domain.NotifySuccess, "logged out")
	}
}

func (s *ChannelService) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// canSyncLocked reports whether admin edits should schedule a remote write.
func (s *ChannelService) canSyncLocked() bool {
	return s.loggedIn && s.syncToken != "" && s.gistID != "" && s.trigger != nil
}

// mutate applies fn to a copy of the document. A failing fn leaves the
// document untouched. On success the copy replaces the document, is cached
// and a sync is scheduled.
func (s *ChannelService) mutate(ctx context.Context, fn func(doc *domain.ChannelDocument) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.loggedIn {
		s.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	work := s.doc.Clone()
	if err := fn(work); err != nil {
		s.mu.Unlock()
		return err
	}
	work.Normalize()
	s.doc = work
	s.revision++
	snapshot := work.Clone()
	notify := s.canSyncLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	if notify {
		s.trigger.Notify()
	}
	return nil
}

// nextIDLocked returns a millisecond timestamp id not used by any item.
func (s *ChannelService) nextIDLocked(doc *domain.ChannelDocument) int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	taken := usedIDs(doc)
	for {
		if _, ok := taken[id]; !ok {
			break
		}
		id++
	}
	s.lastID = id
	return id
}

func usedIDs(doc *domain.ChannelDocument) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, v := range doc.Videos {
		ids[v.ID] = struct{}{}
	}
	for _, v := range doc.Shorts {
		ids[v.ID] = struct{}{}
	}
	for _, a := range doc.Activities {
		ids[a.ID] = struct{}{}
	}
	for _, p := range doc.Playlists {
		ids[p.ID] = struct{}{}
	}
	for _, a := range doc.AdSettings.Ads {
		ids[a.ID] = struct{}{}
	}
	for _, f := range doc.Feedback {
		ids[f.ID] = struct{}{}
	}
	return ids
}

func newVideoItem(title, youtubeURL string) (domain.VideoItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.VideoItem{}, domain.NewValidationError("title", "title is required")
	}
	videoID, ok := YouTubeID(youtubeURL)
	if !ok {
		return domain.VideoItem{}, domain.NewValidationError("youtubeUrl", "invalid youtube url")
	}
	return domain.VideoItem{
		Title:        title,
		YoutubeURL:   youtubeURL,
		ThumbnailURL: ThumbnailURL(videoID),
	}, nil
}

func (s *ChannelService) AddVideo(ctx context.Context, title, youtubeURL string) (domain.VideoItem, error) {
	return s.addVideoItem(ctx, title, youtubeURL, false)
}

func (s *ChannelService) AddShort(ctx context.Context, title, youtubeURL string) (domain.VideoItem, error) {
	return s.addVideoItem(ctx, title, youtubeURL, true)
}

func (s *ChannelService) addVideoItem(ctx context.Context, title, youtubeURL string, short bool) (domain.VideoItem, error) {
	item, err := newVideoItem(title, youtubeURL)
	if err != nil {
		return domain.VideoItem{}, err
	}

	err = s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		item.ID = s.nextIDLocked(doc)
		if short {
			doc.Shorts = append([]domain.VideoItem{item}, doc.Shorts...)
		} else {
			doc.Videos = append([]domain.VideoItem{item}, doc.Videos...)
		}
		return nil
	})
	if err != nil {
		return domain.VideoItem{}, err
	}
	return item, nil
}

// EditVideo updates title and url of the video or short with the given id.
func (s *ChannelService) EditVideo(ctx context.Context, id int64, title, youtubeURL string) error {
	item, err := newVideoItem(title, youtubeURL)
	if err != nil {
		return err
	}

	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		found := false
		for _, list := range [][]domain.VideoItem{doc.Videos, doc.Shorts} {
			for i := range list {
				if list[i].ID == id {
					list[i].Title = item.Title
					list[i].YoutubeURL = item.YoutubeURL
					list[i].ThumbnailURL = item.ThumbnailURL
					found = true
				}
			}
		}
		if !found {
			return domain.NewValidationError("id", "video not found")
		}
		return nil
	})
}

// DeleteVideo removes the id from videos, shorts and every playlist.
func (s *ChannelService) DeleteVideo(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		doc.Videos = removeVideo(doc.Videos, id)
		doc.Shorts = removeVideo(doc.Shorts, id)
		for i := range doc.Playlists {
			doc.Playlists[i].VideoIDs = removeID(doc.Playlists[i].VideoIDs, id)
		}
		return nil
	})
}

func (s *ChannelService) AddActivity(ctx context.Context, title, description, imageURL string) (domain.ActivityItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.ActivityItem{}, domain.NewValidationError("title", "title is required")
	}
	if imageURL == "" {
		return domain.ActivityItem{}, domain.NewValidationError("imageUrl", "image is required")
	}

	activity := domain.ActivityItem{Title: title, Description: description, ImageURL: imageURL}
	err := s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		activity.ID = s.nextIDLocked(doc)
		doc.Activities = append([]domain.ActivityItem{activity}, doc.Activities...)
		return nil
	})
	if err != nil {
		return domain.ActivityItem{}, err
	}
	return activity, nil
}

func (s *ChannelService) DeleteActivity(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		kept := doc.Activities[:0]
		for _, a := range doc.Activities {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		doc.Activities = kept
		return nil
	})
}

func (s *ChannelService) CreatePlaylist(ctx context.Context, name string) (domain.PlaylistItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.PlaylistItem{}, domain.NewValidationError("name", "playlist name is required")
	}

	playlist := domain.PlaylistItem{Name: name, VideoIDs: []int64{}}
	err := s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		for _, p := range doc.Playlists {
			if p.Name == name {
				return domain.NewValidationError("name", "a playlist with this name already exists")
			}
		}
		playlist.ID = s.nextIDLocked(doc)
		doc.Playlists = append(doc.Playlists, playlist)
		return nil
	})
	if err != nil {
		return domain.PlaylistItem{}, err
	}
	return playlist, nil
}

func (s *ChannelService) AddToPlaylist(ctx context.Context, videoID, playlistID int64) error {
	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		if findVideo(doc, videoID) == nil {
			return domain.NewValidationError("videoId", "video not found")
		}
		for i := range doc.Playlists {
			if doc.Playlists[i].ID != playlistID {
				continue
			}
			if doc.Playlists[i].Contains(videoID) {
				return domain.NewValidationError("videoId", "video is already in this playlist")
			}
			doc.Playlists[i].VideoIDs = append(doc.Playlists[i].VideoIDs, videoID)
			return nil
		}
		return domain.NewValidationError("playlistId", "playlist not found")
	})
}

// SetChannelLogo stores a data URI logo; nil removes it.
func (s *ChannelService) SetChannelLogo(ctx context.Context, logo *string) error {
	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		doc.ChannelLogo = logo
		return nil
	})
}

func (s *ChannelService) SetChannelDescription(ctx context.Context, description string) error {
	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		doc.ChannelDescription = description
		return nil
	})
}

func (s *ChannelService) SetSubscriptionURL(ctx context.Context, url string) error {
	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		doc.SubscriptionURL = strings.TrimSpace(url)
		return nil
	})
}

// SetAdSettings replaces the ads and call-to-action settings. Ads without an
// id get one. An enabled CTA with empty text is accepted.
func (s *ChannelService) SetAdSettings(ctx context.Context, settings domain.AdSettings) error {
	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		ads := append([]domain.Ad(nil), settings.Ads...)
		for i := range ads {
			if ads[i].ID == 0 {
				ads[i].ID = s.nextIDLocked(doc)
			}
		}
		settings.Ads = ads
		doc.AdSettings = settings
		return nil
	})
}

func (s *ChannelService) SetFeedbackSyncSettings(ctx context.Context, settings domain.FeedbackSyncSettings) error {
	settings.URL = strings.TrimSpace(settings.URL)
	settings.Token = strings.TrimSpace(settings.Token)
	if settings.URL != "" {
		if _, ok := gist.GistID(settings.URL); !ok {
			return domain.NewValidationError("url", "invalid feedback gist url")
		}
	}

	if err := s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		doc.FeedbackSyncSettings = settings
		return nil
	}); err != nil {
		return err
	}

	if err := s.cache.SaveFeedbackSettings(ctx, settings); err != nil {
		s.logger.Error("failed to cache feedback settings", "error", err)
	}
	return nil
}

// SetCredentials changes the local admin login. It is never synced.
func (s *ChannelService) SetCredentials(ctx context.Context, creds domain.Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return domain.NewValidationError("credentials", "username and password are required")
	}

	s.mu.Lock()
	if !s.loggedIn {
		s.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	s.creds = creds
	s.mu.Unlock()

	if err := s.cache.SaveCredentials(ctx, creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.emit(ctx, domain.NotifySuccess, "credentials updated")
	return nil
}

// ConfigureSync verifies token against the main gist and stores it.
func (s *ChannelService) ConfigureSync(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.NewValidationError("token", "a github token is required")
	}
	if !s.LoggedIn() {
		return domain.ErrNotAuthenticated
	}
	if s.gistID == "" {
		return domain.ErrNoSyncTarget
	}

	if _, err := s.remote.FileNames(ctx, s.gistID, token); err != nil {
		s.emit(ctx, domain.NotifyError, fmt.Sprintf("could not connect to the gist: %v", err))
		return fmt.Errorf("verify token: %w", err)
	}

	if err := s.cache.SaveSyncToken(ctx, token); err != nil {
		return fmt.Errorf("save sync token: %w", err)
	}

	s.mu.Lock()
	s.syncToken = token
	notify := s.canSyncLocked()
	s.mu.Unlock()

	s.emit(ctx, domain.NotifySuccess, "sync token connected")
	if notify {
		s.trigger.Notify()
	}
	return nil
}

// Export returns the indented document and its backup filename.
func (s *ChannelService) Export(ctx context.Context) ([]byte, string, error) {
	s.mu.RLock()
	snapshot := s.doc.Clone()
	s.mu.RUnlock()

	data, err := s.codec.Encode(snapshot)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s_backup_%s.json", s.config.ExportPrefix, s.now().Format("2006-01-02"))
	return data, filename, nil
}

// Import replaces the whole document with an uploaded backup, as if it had
// just been fetched. Invalid uploads leave the document unchanged.
func (s *ChannelService) Import(ctx context.Context, data []byte) error {
	imported, err := s.codec.DecodeImport(data)
	if err != nil {
		return err
	}

	err = s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		*doc = *imported
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.hasContent = true
	s.boot = domain.BootState{Phase: domain.BootReady}
	s.newItems = reconcile.NewItems(imported, s.seen)
	s.mu.Unlock()

	s.emit(ctx, domain.NotifySuccess, "data imported")
	return nil
}

// DeleteFeedback removes an entry from the live feedback gist, then locally.
func (s *ChannelService) DeleteFeedback(ctx context.Context, id int64) error {
	if !s.LoggedIn() {
		return domain.ErrNotAuthenticated
	}

	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()

	s.mu.RLock()
	settings := s.doc.FeedbackSyncSettings
	remaining := make([]domain.FeedbackItem, 0, len(s.doc.Feedback))
	for _, f := range s.doc.Feedback {
		if f.ID != id {
			remaining = append(remaining, f)
		}
	}
	s.mu.RUnlock()

	if err := s.writeFeedback(ctx, settings, remaining); err != nil {
		s.emit(ctx, domain.NotifyError, fmt.Sprintf("failed to delete feedback: %v", err))
		return err
	}

	return s.mutate(ctx, func(doc *domain.ChannelDocument) error {
		kept := doc.Feedback[:0]
		for _, f := range doc.Feedback {
			if f.ID != id {
				kept = append(kept, f)
			}
		}
		doc.Feedback = kept
		return nil
	})
}

func findVideo(doc *domain.ChannelDocument, id int64) *domain.VideoItem {
	for i := range doc.Videos {
		if doc.Videos[i].ID == id {
			return &doc.Videos[i]
		}
	}
	for i := range doc.Shorts {
		if doc.Shorts[i].ID == id {
			return &doc.Shorts[i]
		}
	}
	return nil
}

func removeVideo(items []domain.VideoItem, id int64) []domain.VideoItem {
	kept := items[:0]
	for _, v := range items {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	return kept
}

func removeID(ids []int64, id int64) []int64 {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
