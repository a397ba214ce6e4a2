package schema

import (
	"encoding/json"
	"fmt"

	"channel_sync/internal/domain"
)

// legacyAdSettings is the version 0 layout: one ad configured in place,
// optionally already carrying the newer fields.
type legacyAdSettings struct {
	Enabled    *bool       `json:"enabled"`
	Text       *string     `json:"text"`
	ImageURL   *string     `json:"imageUrl"`
	Link       *string     `json:"link"`
	Ads        []domain.Ad `json:"ads"`
	CtaEnabled *bool       `json:"ctaEnabled"`
	CtaText    *string     `json:"ctaText"`
	CtaLink    *string     `json:"ctaLink"`
}

func migrateLegacyAds(c *Codec, raw *rawDocument) error {
	if isNull(raw.AdSettings) {
		return nil
	}
	settings, err := c.MigrateAdSettings(raw.AdSettings)
	if err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode migrated ad settings: %w", err)
	}
	raw.AdSettings = data
	return nil
}

// MigrateAdSettings converts the single-ad layout into the ads list. One ad is
// synthesized only when the legacy ad was enabled and had both text and an
// image. Input already in the list layout gets defaults for missing fields and
// is otherwise returned as is.
func (c *Codec) MigrateAdSettings(data json.RawMessage) (domain.AdSettings, error) {
	var legacy legacyAdSettings
	if err := json.Unmarshal(data, &legacy); err != nil {
		return domain.AdSettings{}, fmt.Errorf("decode ad settings: %w: %v", domain.ErrMalformedData, err)
	}

	settings := c.DefaultAdSettings()
	if legacy.CtaEnabled != nil {
		settings.CtaEnabled = *legacy.CtaEnabled
	}
	if legacy.CtaText != nil {
		settings.CtaText = *legacy.CtaText
	}
	if legacy.CtaLink != nil {
		settings.CtaLink = *legacy.CtaLink
	}

	if legacy.Enabled == nil {
		if legacy.Ads != nil {
			settings.Ads = legacy.Ads
		}
		return settings, nil
	}

	if *legacy.Enabled && nonEmpty(legacy.Text) && nonEmpty(legacy.ImageURL) {
		settings.Ads = append(settings.Ads, domain.Ad{
			ID:       c.now().UnixMilli(),
			Text:     *legacy.Text,
			ImageURL: legacy.ImageURL,
			Link:     legacy.Link,
		})
	}
	return settings, nil
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
