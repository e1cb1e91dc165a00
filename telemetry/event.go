package telemetry

import (
	"encoding/json"
	"time"
)

// Attr is one ordered attribute of an event. Events keep attributes as
// a slice, not a map, so the persisted record preserves the order the
// recorder wrote them in.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// String builds an Attr with a string value.
func String(key, value string) Attr { return Attr{Key: key, Value: value} }

// Event is one telemetry record. Append-only once persisted.
type Event struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Attributes []Attr             `json:"attributes,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// MarshalRecord serializes the event as a single JSON line.
func (e Event) MarshalRecord() ([]byte, error) {
	return json.Marshal(e)
}

// Attr returns the value of the named attribute, "" when absent.
func (e Event) Attr(key string) string {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
