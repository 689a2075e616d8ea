package agent

import (
	"context"

	"github.com/google/uuid"
)

// Request-scoped values travel on the context, never in globals, so
// concurrent conversations for different businesses cannot leak into
// each other.

type businessIDKey struct{}
type inboundImageKey struct{}

// WithBusinessID stamps the tenant onto the request context
func WithBusinessID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, businessIDKey{}, id)
}

// BusinessIDFrom returns the tenant for this request, if set
func BusinessIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(businessIDKey{}).(uuid.UUID)
	return id, ok
}

// WithInboundImage attaches the raw bytes of an image the customer sent
// with the current message
func WithInboundImage(ctx context.Context, image []byte) context.Context {
	return context.WithValue(ctx, inboundImageKey{}, image)
}

// InboundImageFrom returns the current message's image bytes, if any
func InboundImageFrom(ctx context.Context) ([]byte, bool) {
	image, ok := ctx.Value(inboundImageKey{}).([]byte)
	return image, ok && len(image) > 0
}
