package events

import "time"

const (
	TypeUserRegistered  = "user.registered"
	TypeUserDeleted     = "user.deleted"
	TypeFeedbackCreated = "feedback.created"
	TypeFeedbackUpdated = "feedback.updated"
	TypeFeedbackDeleted = "feedback.deleted"
)

// Event is a domain event published after a successful commit.
type Event struct {
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	FeedbackID int64     `json:"feedbackId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher abstracts the messaging backend (NATS/Kafka).
type Publisher interface {
	Publish(event Event) error
	Close() error
}

func UserRegistered(username string) Event {
	return Event{Type: TypeUserRegistered, Username: username, OccurredAt: time.Now().UTC()}
}

func UserDeleted(username string) Event {
	return Event{Type: TypeUserDeleted, Username: username, OccurredAt: time.Now().UTC()}
}

func FeedbackCreated(username string, id int64) Event {
	return Event{Type: TypeFeedbackCreated, Username: username, FeedbackID: id, OccurredAt: time.Now().UTC()}
}

func FeedbackUpdated(username string, id int64) Event {
	return Event{Type: TypeFeedbackUpdated, Username: username, FeedbackID: id, OccurredAt: time.Now().UTC()}
}

func FeedbackDeleted(username string, id int64) Event {
	return Event{Type: TypeFeedbackDeleted, Username: username, FeedbackID: id, OccurredAt: time.Now().UTC()}
}
