package events

import (
	"encoding/json"
	"fmt"

	alerts_errors "stream-alerts/pkg/errors"
)

// Envelope is one of FollowEvent, SubscribeEvent, DonationEvent, RaidEvent or
// MusicEvent. Nil fields are published as JSON null.
type Envelope interface {
	Type() Type
	envelope()
}

type FollowEvent struct {
	Username *string `json:"username"`
}

type SubscribeEvent struct {
	Username  *string `json:"username"`
	IsPrime   *string `json:"isPrime"`
	IsGift    *string `json:"isGift"`
	Recipient *string `json:"recipient"`
}

type DonationEvent struct {
	Username *string `json:"username"`
	Amount   *string `json:"amount"`
}

type RaidEvent struct {
	Username *string `json:"username"`
	Viewers  *string `json:"viewers"`
}

// MusicEvent carries the music body's values as raw JSON of any type.
type MusicEvent struct {
	AlbumImg json.RawMessage `json:"albumImg"`
	Author   json.RawMessage `json:"author"`
	Song     json.RawMessage `json:"song"`
	NoSound  json.RawMessage `json:"noSound"`
}

func (FollowEvent) Type() Type    { return TypeFollow }
func (SubscribeEvent) Type() Type { return TypeSubscribe }
func (DonationEvent) Type() Type  { return TypeDonation }
func (RaidEvent) Type() Type      { return TypeRaid }
func (MusicEvent) Type() Type     { return TypeMusic }

func (FollowEvent) envelope()    {}
func (SubscribeEvent) envelope() {}
func (DonationEvent) envelope()  {}
func (RaidEvent) envelope()      {}
func (MusicEvent) envelope()     {}

// The aliases drop the MarshalJSON methods so the embedded fields are
// promoted after "type".

func (e FollowEvent) MarshalJSON() ([]byte, error) {
	type alias FollowEvent
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e SubscribeEvent) MarshalJSON() ([]byte, error) {
	type alias SubscribeEvent
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e DonationEvent) MarshalJSON() ([]byte, error) {
	type alias DonationEvent
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e RaidEvent) MarshalJSON() ([]byte, error) {
	type alias RaidEvent
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e MusicEvent) MarshalJSON() ([]byte, error) {
	type alias MusicEvent
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

// Encode serializes an envelope into the payload published on the topic.
func Encode(e Envelope) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("encode envelope: %w", alerts_errors.ErrInvalidInput)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", e.Type(), err)
	}
	return data, nil
}

type typeHeader struct {
	Type string `json:"type"`
}

// PeekType reads only the "type" key of a published payload.
func PeekType(data []byte) (Type, error) {
	var h typeHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return "", fmt.Errorf("failed to read event type: %w", err)
	}
	t, ok := ParseType(h.Type)
	if !ok {
		return "", fmt.Errorf("%w: %q", alerts_errors.ErrUnknownEventType, h.Type)
	}
	return t, nil
}

// Decode parses a published payload back into its envelope variant.
func Decode(data []byte) (Envelope, error) {
	t, err := PeekType(data)
	if err != nil {
		return nil, err
	}

	var e Envelope
	switch t {
	case TypeFollow:
		var v FollowEvent
		err = json.Unmarshal(data, &v)
		e = v
	case TypeSubscribe:
		var v SubscribeEvent
		err = json.Unmarshal(data, &v)
		e = v
	case TypeDonation:
		var v DonationEvent
		err = json.Unmarshal(data, &v)
		e = v
	case TypeRaid:
		var v RaidEvent
		err = json.Unmarshal(data, &v)
		e = v
	case TypeMusic:
		var v MusicEvent
		err = json.Unmarshal(data, &v)
		e = v
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", t, err)
	}
	return e, nil
}
