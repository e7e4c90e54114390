package websocket

import "time"

// Типы сообщений, уходящих на фронтенд.
const (
	MessageSnapshotUpdated = "snapshot.updated"
)

// Envelope — "конверт", в котором сообщения уходят клиентам.
// Type позволяет фронтенду понять, что делать с payload.
type Envelope struct {
	Type      string      `json:"type"`
	EventID   string      `json:"eventId"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}
