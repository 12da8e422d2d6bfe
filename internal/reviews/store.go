package reviews

import (
	"context"
	"encoding/json"
	"time"
)

const (
	DefaultRating = 5
	DefaultUser   = "Anonymous"

	// TimestampLayout matches ISO-8601 UTC with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// Timestamp is a server-assigned creation time that serializes in
// TimestampLayout.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = NewTimestamp(parsed)
	return nil
}

// Review is one user-submitted record attached to a product. Text and Comment
// always carry the same value.
type Review struct {
	Text      string    `json:"text"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	User      string    `json:"user"`
	Timestamp Timestamp `json:"timestamp"`
}

func NewReview(text string, rating int, user string, at time.Time) Review {
	return Review{
		Text:      text,
		Comment:   text,
		Rating:    rating,
		User:      user,
		Timestamp: NewTimestamp(at),
	}
}

// Store keeps append-only review lists keyed by product identifier.
// Implementations must be safe for concurrent use.
type Store interface {
	// List returns the reviews for productID in insertion order. An unknown
	// product yields an empty, non-nil slice.
	List(ctx context.Context, productID string) ([]Review, error)
	Append(ctx context.Context, productID string, rv Review) error
	Ping(ctx context.Context) error
	Close() error
}
