package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ChatMessageID string

// NewChatMessageID generates a new unique ChatMessageID
func NewChatMessageID() ChatMessageID {
	return ChatMessageID(uuid.New().String())
}

// NewSessionID generates a fresh session identifier for callers that
// did not supply one.
func NewSessionID() string {
	return uuid.New().String()
}

// DrivingStatus is the driving context tag supplied by the caller.
type DrivingStatus string

const (
	StatusParked      DrivingStatus = "parked"
	StatusCityDriving DrivingStatus = "city_driving"
	StatusHighway     DrivingStatus = "highway"
	StatusTraffic     DrivingStatus = "traffic"
)

// Known reports whether the status is one of the fixed set.
func (s DrivingStatus) Known() bool {
	switch s {
	case StatusParked, StatusCityDriving, StatusHighway, StatusTraffic:
		return true
	}
	return false
}

// Normalize maps empty or unrecognized statuses to StatusParked.
// Stored records always carry a normalized status.
func (s DrivingStatus) Normalize() DrivingStatus {
	if s.Known() {
		return s
	}
	return StatusParked
}

// Display renders the status for human-facing text, e.g.
// "city_driving" becomes "City Driving".
func (s DrivingStatus) Display() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ChatMessage is a single persisted exchange: the user message and the
// reply returned for it, grouped into a conversation by SessionID.
type ChatMessage struct {
	ID            ChatMessageID `json:"id" firestore:"id"`
	SessionID     string        `json:"session_id" firestore:"session_id"`
	Message       string        `json:"message" firestore:"message"`
	Response      string        `json:"response" firestore:"response"`
	DrivingStatus DrivingStatus `json:"driving_status" firestore:"driving_status"`
	Timestamp     time.Time     `json:"timestamp" firestore:"timestamp"`
}

// ChatRequest is the POST /api/chat request body.
type ChatRequest struct {
	Message       string        `json:"message" binding:"required"`
	SessionID     string        `json:"session_id"`
	DrivingStatus DrivingStatus `json:"driving_status"`
}

// ChatResponse is the POST /api/chat response body.
type ChatResponse struct {
	Response  string        `json:"response"`
	SessionID string        `json:"session_id"`
	MessageID ChatMessageID `json:"message_id"`
}
