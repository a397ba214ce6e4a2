package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channel_sync/internal/domain"
)

func newTestCodec() *Codec {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewCodec(Defaults{
		ChannelDescription: "default description",
		CtaText:            "Advertise with us",
	}).WithClock(func() time.Time { return fixed })
}

func TestDecode_LegacyAdIsMigrated(t *testing.T) {
	codec := newTestCodec()
	data := []byte(`{
		"videos": [{"id": 1, "title": "X", "views": 3}],
		"adSettings": {"enabled": true, "text": "Buy toys", "imageUrl": "data:image/png;base64,AAA", "link": "https://toys.example"}
	}`)

	doc, err := codec.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, domain.CurrentSchemaVersion, doc.SchemaVersion)
	require.Len(t, doc.AdSettings.Ads, 1)
	ad := doc.AdSettings.Ads[0]
	assert.Equal(t, "Buy toys", ad.Text)
	require.NotNil(t, ad.ImageURL)
	assert.Equal(t, "data:image/png;base64,AAA", *ad.ImageURL)
	require.NotNil(t, ad.Link)
	assert.Equal(t, "https://toys.example", *ad.Link)
	assert.False(t, doc.AdSettings.CtaEnabled)
	assert.Equal(t, "Advertise with us", doc.AdSettings.CtaText)
	assert.Equal(t, "", doc.AdSettings.CtaLink)
}

func TestDecode_LegacyAdWithoutImageIsDropped(t *testing.T) {
	codec := newTestCodec()
	data := []byte(`{"videos": [], "adSettings": {"enabled": true, "text": "Buy toys", "ctaEnabled": true, "ctaText": "Call us"}}`)

	doc, err := codec.Decode(data)
	require.NoError(t, err)

	assert.Empty(t, doc.AdSettings.Ads)
	assert.True(t, doc.AdSettings.CtaEnabled)
	assert.Equal(t, "Call us", doc.AdSettings.CtaText)
}

func TestDecode_LegacyDisabledAdIsDropped(t *testing.T) {
	codec := newTestCodec()
	data := []byte(`{"videos": [], "adSettings": {"enabled": false, "text": "a", "imageUrl": "b"}}`)

	doc, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, doc.AdSettings.Ads)
}

func TestMigrateAdSettings_Idempotent(t *testing.T) {
	codec := newTestCodec()
	inputs := []string{
		`{"enabled": true, "text": "t", "imageUrl": "i", "link": "l", "ctaEnabled": true}`,
		`{"enabled": false}`,
		`{"ads": [{"id": 7, "text": "t"}], "ctaText": "x"}`,
		`{}`,
	}

	for _, in := range inputs {
		once, err := codec.MigrateAdSettings(json.RawMessage(in))
		require.NoError(t, err)

		encoded, err := json.Marshal(once)
		require.NoError(t, err)

		twice, err := codec.MigrateAdSettings(encoded)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %s", in)
	}
}

func TestDecode_CurrentVersionKeepsAds(t *testing.T) {
	codec := newTestCodec()
	data := []byte(`{"schemaVersion": 1, "videos": [], "adSettings": {"ads": [{"id": 9, "text": "hi"}], "ctaEnabled": true, "ctaText": "", "ctaLink": ""}}`)

	doc, err := codec.Decode(data)
	require.NoError(t, err)

	require.Len(t, doc.AdSettings.Ads, 1)
	assert.Equal(t, int64(9), doc.AdSettings.Ads[0].ID)
	assert.True(t, doc.AdSettings.CtaEnabled)
	assert.Equal(t, "", doc.AdSettings.CtaText)
}

func TestDecode_MissingFieldsGetDefaults(t *testing.T) {
	codec := newTestCodec()

	doc, err := codec.Decode([]byte(`{}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.Videos)
	assert.NotNil(t, doc.Shorts)
	assert.NotNil(t, doc.Playlists)
	assert.NotNil(t, doc.Feedback)
	assert.Nil(t, doc.ChannelLogo)
	assert.Equal(t, "default description", doc.ChannelDescription)
	assert.Equal(t, "Advertise with us", doc.AdSettings.CtaText)
}

func TestDecode_Malformed(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.Decode([]byte(`{"videos": [`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedData)

	_, err = codec.Decode([]byte(`{"videos": "nope"}`))
	assert.ErrorIs(t, err, domain.ErrMalformedData)
}

func TestDecode_FutureVersionRejected(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.Decode([]byte(`{"schemaVersion": 99}`))
	assert.ErrorIs(t, err, domain.ErrMalformedData)
}

func TestEncode_WritesCurrentVersionAndArrays(t *testing.T) {
	codec := newTestCodec()

	data, err := codec.Encode(&domain.ChannelDocument{})
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.JSONEq(t, `1`, string(fields["schemaVersion"]))
	assert.JSONEq(t, `[]`, string(fields["videos"]))
	assert.JSONEq(t, `[]`, string(fields["shorts"]))
	assert.JSONEq(t, `null`, string(fields["channelLogo"]))
}

func TestDecodeImport(t *testing.T) {
	codec := newTestCodec()

	t.Run("accepts videos array", func(t *testing.T) {
		doc, err := codec.DecodeImport([]byte(`{"videos": [{"id": 1, "title": "a"}]}`))
		require.NoError(t, err)
		assert.Len(t, doc.Videos, 1)
	})

	t.Run("rejects missing videos", func(t *testing.T) {
		_, err := codec.DecodeImport([]byte(`{"shorts": [{"id": 1}]}`))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects non-array videos", func(t *testing.T) {
		_, err := codec.DecodeImport([]byte(`{"videos": {}}`))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects non-json", func(t *testing.T) {
		_, err := codec.DecodeImport([]byte(`hello`))
		assert.ErrorIs(t, err, domain.ErrMalformedData)
	})
}

func TestDecodeFeedback(t *testing.T) {
	items, err := DecodeFeedback([]byte(`[{"id": 1, "rating": 5, "comment": "great", "createdAt": "2024-01-01T00:00:00Z"}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Rating)

	_, err = DecodeFeedback([]byte(`{"id": 1}`))
	assert.ErrorIs(t, err, domain.ErrMalformedData)

	data, err := EncodeFeedback(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
