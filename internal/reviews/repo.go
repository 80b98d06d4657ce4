package reviews

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	fs "github.com/Tejayenduri9/biryani-boys-backend/pkg/firestore"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

// reviewDoc is the remote document shape: one collection per meal, documents
// holding comment, rating, author, and a server-assigned timestamp.
type reviewDoc struct {
	Comment   string    `firestore:"comment"`
	Rating    int       `firestore:"rating"`
	User      authorDoc `firestore:"user"`
	Timestamp time.Time `firestore:"timestamp,serverTimestamp"`
}

type authorDoc struct {
	Name string `firestore:"name"`
	UID  string `firestore:"uid"`
}

type firestoreStore struct {
	client *fs.Client
	logg   *logger.Logger
}

// NewFirestoreStore adapts the shared Firestore client to the RemoteStore
// surface.
func NewFirestoreStore(client *fs.Client, logg *logger.Logger) (RemoteStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client required")
	}
	return &firestoreStore{client: client, logg: logg}, nil
}

func (s *firestoreStore) Create(ctx context.Context, meal string, review Review) (string, error) {
	doc := reviewDoc{
		Comment: review.Comment,
		Rating:  review.Rating,
		User: authorDoc{
			Name: review.Author.Name,
			UID:  review.Author.UID,
		},
	}
	ref, _, err := s.client.Collection(meal).Add(ctx, doc)
	if err != nil {
		return "", fs.Classify(err, "create review")
	}
	return ref.ID, nil
}

func (s *firestoreStore) Fetch(ctx context.Context, meal, remoteID string) (*Review, error) {
	snap, err := s.client.Collection(meal).Doc(remoteID).Get(ctx)
	if err != nil {
		return nil, fs.Classify(err, "fetch review")
	}
	review, err := decodeReview(snap)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *firestoreStore) Update(ctx context.Context, meal, remoteID, comment string, rating int) error {
	_, err := s.client.Collection(meal).Doc(remoteID).Update(ctx, []firestore.Update{
		{Path: "comment", Value: comment},
		{Path: "rating", Value: rating},
		{Path: "timestamp", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fs.Classify(err, "update review")
	}
	return nil
}

func (s *firestoreStore) Delete(ctx context.Context, meal, remoteID string) error {
	if _, err := s.client.Collection(meal).Doc(remoteID).Delete(ctx); err != nil {
		return fs.Classify(err, "delete review")
	}
	return nil
}

// Watch opens a query snapshot stream for the meal, newest first, capped at
// limit. Each emitted slice is the full current result set.
func (s *firestoreStore) Watch(ctx context.Context, meal string, limit int) (Subscription, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	iter := s.client.Collection(meal).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Snapshots(watchCtx)

	sub := &firestoreSubscription{
		snapshots: make(chan []Review),
		cancel:    cancel,
	}

	go func() {
		defer close(sub.snapshots)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				sub.setErr(fs.Classify(err, "review snapshot stream"))
				return
			}
			list, err := decodeSnapshot(snap)
			if err != nil {
				if s.logg != nil {
					s.logg.Error(watchCtx, "decoding review snapshot", err)
				}
				continue
			}
			select {
			case sub.snapshots <- list:
			case <-watchCtx.Done():
				sub.setErr(watchCtx.Err())
				return
			}
		}
	}()

	return sub, nil
}

type firestoreSubscription struct {
	snapshots chan []Review
	cancel    context.CancelFunc

	mu  sync.Mutex
	err error
}

func (s *firestoreSubscription) Snapshots() <-chan []Review {
	return s.snapshots
}

func (s *firestoreSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *firestoreSubscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *firestoreSubscription) Cancel() {
	s.cancel()
}

func decodeSnapshot(snap *firestore.QuerySnapshot) ([]Review, error) {
	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, fs.Classify(err, "read review snapshot")
	}
	list := make([]Review, 0, len(docs))
	for _, doc := range docs {
		review, err := decodeReview(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, *review)
	}
	return list, nil
}

func decodeReview(snap *firestore.DocumentSnapshot) (*Review, error) {
	var doc reviewDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding review document %s: %w", snap.Ref.ID, err)
	}
	id, err := NewCommitted(snap.Ref.ID)
	if err != nil {
		return nil, err
	}
	return &Review{
		ID:      id,
		Comment: doc.Comment,
		Rating:  doc.Rating,
		Author: Author{
			Name: doc.User.Name,
			UID:  doc.User.UID,
		},
		Timestamp: doc.Timestamp,
	}, nil
}
