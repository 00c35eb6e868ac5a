package events

import (
	"encoding/json"
	"errors"
	"testing"

	alerts_errors "stream-alerts/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEncode_Follow(t *testing.T) {
	data, err := Encode(FollowEvent{Username: strPtr("alice")})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"follow","username":"alice"}`, string(data))
}

func TestEncode_AbsentFieldsAreNull(t *testing.T) {
	tests := []struct {
		name     string
		event    Envelope
		expected string
	}{
		{
			name:     "follow",
			event:    FollowEvent{},
			expected: `{"type":"follow","username":null}`,
		},
		{
			name:     "subscribe gift",
			event:    SubscribeEvent{Username: strPtr("bob"), IsGift: strPtr("1"), Recipient: strPtr("carol")},
			expected: `{"type":"subscribe","username":"bob","isPrime":null,"isGift":"1","recipient":"carol"}`,
		},
		{
			name:     "donation",
			event:    DonationEvent{Username: strPtr("dan"), Amount: strPtr("4.20")},
			expected: `{"type":"donation","username":"dan","amount":"4.20"}`,
		},
		{
			name:     "raid without viewers",
			event:    RaidEvent{Username: strPtr("eve")},
			expected: `{"type":"raid","username":"eve","viewers":null}`,
		},
		{
			name:     "music",
			event:    MusicEvent{AlbumImg: json.RawMessage(`"data:image/png;base64,AAAA"`), Author: json.RawMessage(`"Sylvain D"`), Song: json.RawMessage(`"The silence"`), NoSound: json.RawMessage(`false`)},
			expected: `{"type":"music","albumImg":"data:image/png;base64,AAAA","author":"Sylvain D","song":"The silence","noSound":false}`,
		},
		{
			name:     "music without values",
			event:    MusicEvent{Song: json.RawMessage(`7`)},
			expected: `{"type":"music","albumImg":null,"author":null,"song":7,"noSound":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.event)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
			assert.Equal(t, tt.expected, string(data), "type must be the first key")
		})
	}
}

func TestEncode_Nil(t *testing.T) {
	_, err := Encode(nil)
	assert.True(t, errors.Is(err, alerts_errors.ErrInvalidInput))
}

func TestDecode(t *testing.T) {
	e, err := Decode([]byte(`{"type":"subscribe","username":"bob","isPrime":"true","isGift":null,"recipient":null}`))
	require.NoError(t, err)

	sub, ok := e.(SubscribeEvent)
	require.True(t, ok)
	assert.Equal(t, "bob", *sub.Username)
	assert.Equal(t, "true", *sub.IsPrime)
	assert.Nil(t, sub.IsGift)
	assert.Nil(t, sub.Recipient)
}

func TestDecode_Music(t *testing.T) {
	e, err := Decode([]byte(`{"type":"music","albumImg":"https://img.example/a.jpg","author":"A","song":"S","noSound":true}`))
	require.NoError(t, err)

	music, ok := e.(MusicEvent)
	require.True(t, ok)
	assert.JSONEq(t, `"https://img.example/a.jpg"`, string(music.AlbumImg))
	assert.JSONEq(t, `true`, string(music.NoSound))
}

func TestDecode_MusicKeepsAnyValueType(t *testing.T) {
	e, err := Decode([]byte(`{"type":"music","author":42,"noSound":"yes"}`))
	require.NoError(t, err)

	music, ok := e.(MusicEvent)
	require.True(t, ok)
	assert.JSONEq(t, `42`, string(music.Author))
	assert.JSONEq(t, `"yes"`, string(music.NoSound))
	assert.Nil(t, music.Song)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"cheer","username":"x"}`))
	assert.True(t, errors.Is(err, alerts_errors.ErrUnknownEventType))

	_, err = Decode([]byte(`{"type":"follow"`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"type":"follow","username":1}`))
	assert.Error(t, err)
}

func TestPeekType(t *testing.T) {
	typ, err := PeekType([]byte(`{"type":"raid","username":"x","viewers":"12"}`))
	require.NoError(t, err)
	assert.Equal(t, TypeRaid, typ)

	_, err = PeekType([]byte(`{}`))
	assert.Error(t, err)
}
