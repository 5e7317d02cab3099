package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CloudEvent is the envelope published to Kafka for every domain event.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	ContentType string          `json:"datacontenttype"`
	Data        json.RawMessage `json:"data"`
}

// NewCloudEvent wraps a payload in a CloudEvent envelope.
func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, err
	}
	return CloudEvent{
		ID:          uuid.NewString(),
		Source:      source,
		Type:        eventType,
		Time:        time.Now().UTC(),
		ContentType: "application/json",
		Data:        raw,
	}, nil
}

// ParseCloudEvent decodes a CloudEvent from its wire form.
func ParseCloudEvent(raw []byte) (CloudEvent, error) {
	var ce CloudEvent
	if err := json.Unmarshal(raw, &ce); err != nil {
		return CloudEvent{}, err
	}
	return ce, nil
}

// ParseData decodes the event payload into out.
func (e CloudEvent) ParseData(out interface{}) error {
	return json.Unmarshal(e.Data, out)
}
