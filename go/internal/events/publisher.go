package events

import "context"

// Publisher delivers countdown events to an external consumer
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
