package model

import (
	"time"

	"github.com/google/uuid"
)

type StatusCheckID string

// NewStatusCheckID generates a new unique StatusCheckID
func NewStatusCheckID() StatusCheckID {
	return StatusCheckID(uuid.New().String())
}

// StatusCheck is a health-check record created by a client.
type StatusCheck struct {
	ID         StatusCheckID `json:"id" firestore:"id"`
	ClientName string        `json:"client_name" firestore:"client_name"`
	Timestamp  time.Time     `json:"timestamp" firestore:"timestamp"`
}

// StatusCheckCreate is the POST /api/status request body.
type StatusCheckCreate struct {
	ClientName string `json:"client_name" binding:"required"`
}
