package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/streamflix/catalog-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventMovieCreated   EventType = "movie_created"
	EventMovieUpdated   EventType = "movie_updated"
	EventRatingCreated  EventType = "rating_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a fresh event with an id and timestamp.
func NewEvent(eventType EventType, subject string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID  int64          `json:"user_id"`
	Profile domain.Profile `json:"profile"`
}

// MovieChangedPayload payload for create/update/activate events.
type MovieChangedPayload struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title"`
}

// RatingCreatedPayload payload.
type RatingCreatedPayload struct {
	MovieID int64 `json:"movie_id"`
	Score   int   `json:"score"`
}
