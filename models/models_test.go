package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name    string
		meta    Metadata
		wantErr bool
	}{
		{name: "nil", meta: nil},
		{name: "primitives", meta: Metadata{"device": "mobile", "clicks": 3, "ratio": 0.5, "returning": true}},
		{name: "nested", meta: Metadata{"utm": map[string]any{"source": "google", "depth": float64(2)}}},
		{name: "null value", meta: Metadata{"device": nil}, wantErr: true},
		{name: "array value", meta: Metadata{"tags": []any{"a"}}, wantErr: true},
		{name: "nested array", meta: Metadata{"utm": map[string]any{"tags": []string{"a"}}}, wantErr: true},
		{name: "empty key", meta: Metadata{"": "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestMetadataValidateDepth(t *testing.T) {
	inner := map[string]any{"leaf": "x"}
	for i := 0; i < maxMetadataDepth+1; i++ {
		inner = map[string]any{"next": inner}
	}

	err := Metadata{"root": inner}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMetadataScan(t *testing.T) {
	var m Metadata
	require.NoError(t, m.Scan([]byte(`{"device":"tablet","clicks":4}`)))
	assert.Equal(t, Metadata{"device": "tablet", "clicks": float64(4)}, m)

	require.NoError(t, m.Scan(nil))
	assert.Equal(t, Metadata{}, m)

	err := m.Scan("[1,2]")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))
}

func TestMetadataValueIsSorted(t *testing.T) {
	v, err := Metadata{"b": 1, "a": "x"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, v)
}

func TestTrackRequestEvent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	req := TrackRequest{UserID: "u1", Action: "click", Page: "/home"}

	ev, err := req.Event("id-1", now)
	require.NoError(t, err)
	assert.Equal(t, "id-1", ev.ID)
	assert.Equal(t, Metadata{}, ev.Metadata)
	assert.Equal(t, time.UTC, ev.Timestamp.Location())
	assert.True(t, ev.Timestamp.Equal(now))

	req.Metadata = Metadata{"list": []any{1}}
	_, err = req.Event("id-2", now)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestInteractionEventValidate(t *testing.T) {
	ok := InteractionEvent{UserID: "u", Action: "a", Page: "/", Timestamp: time.Now()}
	assert.NoError(t, ok.Validate())

	missingPage := ok
	missingPage.Page = ""
	err := missingPage.Validate()
	assert.True(t, errors.Is(err, ErrDataIntegrity))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "page", fe.Field)

	noTime := ok
	noTime.Timestamp = time.Time{}
	assert.True(t, errors.Is(noTime.Validate(), ErrDataIntegrity))
}

func TestOrderedCountsRoundTripKeepsOrder(t *testing.T) {
	in := OrderedCounts{{Key: "zeta", Count: 9}, {Key: "alpha", Count: 1}}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":9,"alpha":1}`, string(raw))

	var out OrderedCounts
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	n, ok := out.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestNewBehaviorPattern(t *testing.T) {
	p := CommonSequence{UserID: "u1", Sequence: [3]string{"a", "b", "c"}, Frequency: 2, Confidence: 0.97}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bp, err := NewBehaviorPattern("id", p, at)
	require.NoError(t, err)
	assert.Equal(t, "u1", bp.UserID)
	assert.Equal(t, PatternCommonSequence, bp.PatternType)
	assert.Equal(t, 0.97, bp.Confidence)
	assert.JSONEq(t, `{"type":"common_sequence","user_id":"u1","sequence":["a","b","c"],"frequency":2,"confidence":0.97}`, string(bp.Details))
}
