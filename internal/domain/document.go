package domain

// CurrentSchemaVersion is the document layout written by this service.
// Version 0 (field absent) is the legacy layout with a single ad.
const CurrentSchemaVersion = 1

type ChannelDocument struct {
	SchemaVersion        int                  `json:"schemaVersion"`
	Videos               []VideoItem          `json:"videos"`
	Shorts               []VideoItem          `json:"shorts"`
	Activities           []ActivityItem       `json:"activities"`
	Playlists            []PlaylistItem       `json:"playlists"`
	ChannelLogo          *string              `json:"channelLogo"`
	ChannelDescription   string               `json:"channelDescription"`
	SubscriptionURL      string               `json:"subscriptionUrl"`
	AdSettings           AdSettings           `json:"adSettings"`
	Feedback             []FeedbackItem       `json:"feedback"`
	FeedbackSyncSettings FeedbackSyncSettings `json:"feedbackSyncSettings"`
}

type VideoItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	YoutubeURL   string `json:"youtubeUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Views        int64  `json:"views"`
}

type PlaylistItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	VideoIDs []int64 `json:"videoIds"`
}

// Contains reports whether the playlist already holds videoID.
func (p PlaylistItem) Contains(videoID int64) bool {
	for _, id := range p.VideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}

type ActivityItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type AdSettings struct {
	Ads        []Ad   `json:"ads"`
	CtaEnabled bool   `json:"ctaEnabled"`
	CtaText    string `json:"ctaText"`
	CtaLink    string `json:"ctaLink"`
}

type Ad struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Link     *string `json:"link,omitempty"`
}

type FeedbackItem struct {
	ID        int64  `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

// FeedbackSyncSettings points at the independent gist that holds live feedback.
type FeedbackSyncSettings struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// Enabled reports whether both the gist url and its token are configured.
func (f FeedbackSyncSettings) Enabled() bool {
	return f.URL != "" && f.Token != ""
}

// Credentials are device-local and never part of the synced document.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AllVideoIDs returns the ids of every video and short, videos first.
func (d *ChannelDocument) AllVideoIDs() []int64 {
	ids := make([]int64, 0, len(d.Videos)+len(d.Shorts))
	for _, v := range d.Videos {
		ids = append(ids, v.ID)
	}
	for _, v := range d.Shorts {
		ids = append(ids, v.ID)
	}
	return ids
}

// Clone returns a deep copy so snapshots can be serialized outside a lock.
func (d *ChannelDocument) Clone() *ChannelDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.Videos = append([]VideoItem(nil), d.Videos...)
	c.Shorts = append([]VideoItem(nil), d.Shorts...)
	c.Activities = append([]ActivityItem(nil), d.Activities...)
	c.Feedback = append([]FeedbackItem(nil), d.Feedback...)
	c.Playlists = make([]PlaylistItem, len(d.Playlists))
	for i, p := range d.Playlists {
		p.VideoIDs = append([]int64(nil), p.VideoIDs...)
		c.Playlists[i] = p
	}
	if d.ChannelLogo != nil {
		logo := *d.ChannelLogo
		c.ChannelLogo = &logo
	}
	c.AdSettings.Ads = append([]Ad(nil), d.AdSettings.Ads...)
	return &c
}

// Normalize replaces nil slices with empty ones so the document always
// serializes with arrays rather than nulls.
func (d *ChannelDocument) Normalize() {
	if d.Videos == nil {
		d.Videos = []VideoItem{}
	}
	if d.Shorts == nil {
		d.Shorts = []VideoItem{}
	}
	if d.Activities == nil {
		d.Activities = []ActivityItem{}
	}
	if d.Playlists == nil {
		d.Playlists = []PlaylistItem{}
	}
	for i := range d.Playlists {
		if d.Playlists[i].VideoIDs == nil {
			d.Playlists[i].VideoIDs = []int64{}
		}
	}
	if d.Feedback == nil {
		d.Feedback = []FeedbackItem{}
	}
	if d.AdSettings.Ads == nil {
		d.AdSettings.Ads = []Ad{}
	}
}
