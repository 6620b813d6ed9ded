package services

import (
	"context"

	"ecobloom/internal/mailer"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// BlobStore keeps uploaded plant images.
type BlobStore interface {
	// PutImage stores an image and returns its public URL.
	PutImage(ctx context.Context, img ImageUpload) (string, error)
	// Delete removes the object behind url. Unknown urls are not an error.
	Delete(ctx context.Context, url string) error
}

// ImageUpload is an image received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}
