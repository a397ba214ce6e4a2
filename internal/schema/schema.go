// Package schema decodes, migrates and encodes the channel document.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"channel_sync/internal/domain"
)

// Defaults fill fields the stored document leaves out.
type Defaults struct {
	ChannelDescription string
	CtaText            string
}

type Codec struct {
	defaults Defaults
	now      func() time.Time
}

func NewCodec(defaults Defaults) *Codec {
	return &Codec{defaults: defaults, now: time.Now}
}

// WithClock overrides the clock used to stamp synthesized ads.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// rawDocument mirrors domain.ChannelDocument but keeps the ad settings
// undecoded so each schema version can interpret them.
type rawDocument struct {
	SchemaVersion        int                          `json:"schemaVersion"`
	Videos               []domain.VideoItem           `json:"videos"`
	Shorts               []domain.VideoItem           `json:"shorts"`
	Activities           []domain.ActivityItem        `json:"activities"`
	Playlists            []domain.PlaylistItem        `json:"playlists"`
	ChannelLogo          *string                      `json:"channelLogo"`
	ChannelDescription   *string                      `json:"channelDescription"`
	SubscriptionURL      string                       `json:"subscriptionUrl"`
	AdSettings           json.RawMessage              `json:"adSettings"`
	Feedback             []domain.FeedbackItem        `json:"feedback"`
	FeedbackSyncSettings *domain.FeedbackSyncSettings `json:"feedbackSyncSettings"`
}

type migration func(c *Codec, raw *rawDocument) error

// migrations[v] upgrades a document from version v to v+1.
var migrations = map[int]migration{
	0: migrateLegacyAds,
}

// Decode parses a stored or fetched document and upgrades it to the current schema.
func (c *Codec) Decode(data []byte) (*domain.ChannelDocument, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w: %v", domain.ErrMalformedData, err)
	}
	if raw.SchemaVersion > domain.CurrentSchemaVersion {
		return nil, fmt.Errorf("decode document: %w: unsupported schema version %d",
			domain.ErrMalformedData, raw.SchemaVersion)
	}

	for raw.SchemaVersion < domain.CurrentSchemaVersion {
		m, ok := migrations[raw.SchemaVersion]
		if !ok {
			return nil, fmt.Errorf("decode document: %w: no migration from version %d",
				domain.ErrMalformedData, raw.SchemaVersion)
		}
		if err := m(c, &raw); err != nil {
			return nil, fmt.Errorf("migrate from version %d: %w", raw.SchemaVersion, err)
		}
		raw.SchemaVersion++
	}

	doc := &domain.ChannelDocument{
		SchemaVersion:   raw.SchemaVersion,
		Videos:          raw.Videos,
		Shorts:          raw.Shorts,
		Activities:      raw.Activities,
		Playlists:       raw.Playlists,
		ChannelLogo:     raw.ChannelLogo,
		SubscriptionURL: raw.SubscriptionURL,
		Feedback:        raw.Feedback,
	}
	doc.ChannelDescription = c.defaults.ChannelDescription
	if raw.ChannelDescription != nil {
		doc.ChannelDescription = *raw.ChannelDescription
	}
	if raw.FeedbackSyncSettings != nil {
		doc.FeedbackSyncSettings = *raw.FeedbackSyncSettings
	}

	ads, err := c.decodeAdSettings(raw.AdSettings)
	if err != nil {
		return nil, err
	}
	doc.AdSettings = ads
	doc.Normalize()

	return doc, nil
}

func (c *Codec) decodeAdSettings(data json.RawMessage) (domain.AdSettings, error) {
	settings := c.DefaultAdSettings()
	if isNull(data) {
		return settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.AdSettings{}, fmt.Errorf("decode ad settings: %w: %v", domain.ErrMalformedData, err)
	}
	if settings.Ads == nil {
		settings.Ads = []domain.Ad{}
	}
	return settings, nil
}

// DefaultAdSettings are used when a document carries no ad settings at all.
func (c *Codec) DefaultAdSettings() domain.AdSettings {
	return domain.AdSettings{
		Ads:     []domain.Ad{},
		CtaText: c.defaults.CtaText,
	}
}

// Encode serializes the document at the current schema version.
func (c *Codec) Encode(doc *domain.ChannelDocument) ([]byte, error) {
	out := doc.Clone()
	out.SchemaVersion = domain.CurrentSchemaVersion
	out.Normalize()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// DecodeImport accepts an uploaded backup. The file must be a JSON object
// whose videos field is an array.
func (c *Codec) DecodeImport(data []byte) (*domain.ChannelDocument, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("import: %w: %v", domain.ErrMalformedData, err)
	}
	videos, ok := fields["videos"]
	if !ok || !isArray(videos) {
		return nil, domain.NewValidationError("videos", "invalid data structure: videos must be an array")
	}
	return c.Decode(data)
}

// DecodeFeedback parses the live feedback gist, which holds a bare array.
func DecodeFeedback(data []byte) ([]domain.FeedbackItem, error) {
	if !isArray(data) {
		return nil, fmt.Errorf("decode feedback: %w: expected an array", domain.ErrMalformedData)
	}
	var items []domain.FeedbackItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode feedback: %w: %v", domain.ErrMalformedData, err)
	}
	if items == nil {
		items = []domain.FeedbackItem{}
	}
	return items, nil
}

func EncodeFeedback(items []domain.FeedbackItem) ([]byte, error) {
	if items == nil {
		items = []domain.FeedbackItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode feedback: %w", err)
	}
	return data, nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
