package events

// Type tags every envelope published on the events topic. Consumers filter on it.
type Type string

const (
	TypeFollow    Type = "follow"
	TypeSubscribe Type = "subscribe"
	TypeDonation  Type = "donation"
	TypeRaid      Type = "raid"
	TypeMusic     Type = "music"
)

// DefaultTopic is the single topic shared by every event type.
const DefaultTopic = "http://example.com/events"

// AllTypes lists every known event type.
var AllTypes = []Type{TypeFollow, TypeSubscribe, TypeDonation, TypeRaid, TypeMusic}

// ParseType returns the Type named by s.
func ParseType(s string) (Type, bool) {
	for _, t := range AllTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
