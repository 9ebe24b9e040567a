// Package sse streams search state snapshots to browsers with Server-Sent Events.
package sse

import (
	"time"

	"github.com/shelfscout/shelfscout/internal/dto"
	"github.com/shelfscout/shelfscout/internal/search"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventConnected is the first frame of every stream.
	EventConnected EventType = "connected"
	// EventState carries a search state snapshot.
	EventState EventType = "state"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
	// EventClosed is the last frame when the session ends server-side.
	EventClosed EventType = "closed"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// ConnectedEventData is the data payload for connected events.
type ConnectedEventData struct {
	ClientID  string `json:"client_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// ClosedEventData is the data payload for closed events.
type ClosedEventData struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// NewConnectedEvent creates the opening frame for a stream.
func NewConnectedEvent(clientID, sessionID string) Event {
	return Event{
		Type:      EventConnected,
		Timestamp: time.Now(),
		Data: ConnectedEventData{
			ClientID:  clientID,
			SessionID: sessionID,
			Message:   "SSE connection established",
		},
	}
}

// NewStateEvent wraps a state snapshot.
func NewStateEvent(st search.State) Event {
	data := dto.NewSearchState(st)
	return Event{
		Type:      EventState,
		Timestamp: data.Timestamp,
		Data:      data,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Timestamp: now,
		Data:      HeartbeatEventData{ServerTime: now},
	}
}

// NewClosedEvent creates the final frame sent when a session goes away.
func NewClosedEvent(sessionID, reason string) Event {
	return Event{
		Type:      EventClosed,
		Timestamp: time.Now(),
		Data:      ClosedEventData{SessionID: sessionID, Reason: reason},
	}
}
