package reviews

import "context"

// RemoteStore is the remote review collection, partitioned by meal title.
// It is the system of record once a review is committed.
type RemoteStore interface {
	// Create stores a new review and returns the remote-assigned id.
	Create(ctx context.Context, meal string, review Review) (string, error)
	// Fetch loads one review by remote id. A missing document surfaces as a
	// not-found error.
	Fetch(ctx context.Context, meal, remoteID string) (*Review, error)
	Update(ctx context.Context, meal, remoteID, comment string, rating int) error
	Delete(ctx context.Context, meal, remoteID string) error
	// Watch opens a live snapshot subscription for the meal, newest first,
	// capped at limit entries.
	Watch(ctx context.Context, meal string, limit int) (Subscription, error)
}

// Subscription is a cancellable stream of full result-set snapshots. The
// channel closes when the stream ends; Err reports why.
type Subscription interface {
	Snapshots() <-chan []Review
	Err() error
	Cancel()
}
