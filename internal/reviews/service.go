package reviews

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/metrics"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/types"
	"github.com/sethvargo/go-retry"
)

const (
	opSubmit = "submit"
	opUpdate = "update"
	opDelete = "delete"

	watchInitialBackoff = time.Second
	watchMaxBackoff     = 30 * time.Second
)

// Engine synchronizes per-meal reviews against the remote store. Local reads
// always come from the shared cache; every mutation applies optimistically
// and rolls back to the retained prior list when the remote write fails.
type Engine struct {
	cache   *Cache
	remote  RemoteStore
	window  int
	online  atomic.Bool
	seq     atomic.Uint64
	metrics *metrics.ReviewSyncMetrics
	logg    *logger.Logger
}

// NewEngine builds the review engine. The window caps each meal's live list.
func NewEngine(cache *Cache, remote RemoteStore, window int, m *metrics.ReviewSyncMetrics, logg *logger.Logger) (*Engine, error) {
	if cache == nil {
		return nil, fmt.Errorf("review cache required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote review store required")
	}
	if window <= 0 {
		window = 10
	}
	e := &Engine{
		cache:   cache,
		remote:  remote,
		window:  window,
		metrics: m,
		logg:    logg,
	}
	e.online.Store(true)
	return e, nil
}

// Hydrate loads the mirrored cache before any remote traffic.
func (e *Engine) Hydrate(ctx context.Context) error {
	return e.cache.Hydrate(ctx)
}

// SetOnline overrides the connectivity flag. The engine tracks it on its own
// from remote outcomes; this forces a state, for tests or an operator toggle.
// Going offline does not tear down subscriptions; it only changes how
// mutation failures are reported.
func (e *Engine) SetOnline(online bool) {
	e.online.Store(online)
}

// Online reports the current connectivity flag.
func (e *Engine) Online() bool {
	return e.online.Load()
}

// Reviews returns the cached list for the meal, newest first.
func (e *Engine) Reviews(meal string) []Review {
	return e.cache.Get(meal)
}

// ReviewCount returns the cached number of reviews for the meal.
func (e *Engine) ReviewCount(meal string) int {
	return len(e.cache.Get(meal))
}

// AverageRating returns the mean rating to one decimal place, "0.0" when the
// meal has no reviews.
func (e *Engine) AverageRating(meal string) string {
	list := e.cache.Get(meal)
	if len(list) == 0 {
		return "0.0"
	}
	sum := 0
	for _, review := range list {
		sum += review.Rating
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(list)))
}

// Submit creates a review: validate, prepend a provisional entry, create the
// remote document, then swap the provisional id for the committed one. On
// failure the provisional entry is removed entirely.
func (e *Engine) Submit(ctx context.Context, identity types.Identity, meal, comment string, rating int) (*Review, error) {
	if !identity.Present() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to leave a review")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review comment is required")
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	provisional := Review{
		ID:      NewProvisional(e.seq.Add(1)),
		Comment: comment,
		Rating:  rating,
		Author: Author{
			Name: identity.DisplayName,
			UID:  identity.UID,
		},
		Timestamp: time.Now(),
	}

	var committed Identifier
	err := e.applyOptimistic(ctx, meal, opSubmit,
		func(prior []Review) []Review {
			next := append([]Review{provisional}, prior...)
			return capList(next, e.window)
		},
		func() error {
			remoteID, err := e.remote.Create(ctx, meal, provisional)
			if err != nil {
				return err
			}
			committed, err = NewCommitted(remoteID)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	// Swap the provisional id in place; the next snapshot brings the
	// server timestamp.
	list := e.cache.Get(meal)
	for i := range list {
		if list[i].ID == provisional.ID {
			list[i].ID = committed
			break
		}
	}
	e.cache.Replace(ctx, meal, list)

	result := provisional
	result.ID = committed
	return &result, nil
}

// Update rewrites a committed review's comment and rating after confirming
// the caller still owns the remote record.
func (e *Engine) Update(ctx context.Context, identity types.Identity, meal, reviewID, comment string, rating int) error {
	if !identity.Present() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to edit a review")
	}
	id, err := ParseIdentifier(reviewID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "malformed review id")
	}
	if id.Provisional() {
		return pkgerrors.New(pkgerrors.CodeValidation, "review is still syncing and cannot be edited yet")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "review comment is required")
	}
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	return e.applyOptimistic(ctx, meal, opUpdate,
		func(prior []Review) []Review {
			next := append([]Review{}, prior...)
			for i := range next {
				if next[i].ID == id {
					next[i].Comment = comment
					next[i].Rating = rating
					next[i].Timestamp = time.Now()
					break
				}
			}
			return next
		},
		func() error {
			remote, err := e.remote.Fetch(ctx, meal, id.Remote())
			if err != nil {
				return err
			}
			if remote.Author.UID != identity.UID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another customer")
			}
			return e.remote.Update(ctx, meal, id.Remote(), comment, rating)
		},
	)
}

// Delete removes a review. Provisional entries are dropped locally without a
// remote call; a record already gone remotely counts as deleted.
func (e *Engine) Delete(ctx context.Context, identity types.Identity, meal, reviewID string) error {
	if !identity.Present() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to delete a review")
	}
	id, err := ParseIdentifier(reviewID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "malformed review id")
	}

	if id.Provisional() {
		e.cache.Replace(ctx, meal, removeByID(e.cache.Get(meal), id))
		return nil
	}

	err = e.applyOptimistic(ctx, meal, opDelete,
		func(prior []Review) []Review {
			return removeByID(prior, id)
		},
		func() error {
			remote, err := e.remote.Fetch(ctx, meal, id.Remote())
			if err != nil {
				return err
			}
			if remote.Author.UID != identity.UID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another customer")
			}
			return e.remote.Delete(ctx, meal, id.Remote())
		},
	)
	// A record that vanished before we reached it is already deleted.
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		e.cache.Replace(ctx, meal, removeByID(e.cache.Get(meal), id))
		return nil
	}
	return err
}

// Watch keeps the meal's cached list in sync with the remote store until ctx
// is cancelled, reconnecting with exponential backoff when the stream drops.
// Each snapshot replaces the cached list wholesale.
func (e *Engine) Watch(ctx context.Context, identity types.Identity, meal string) error {
	if !identity.Present() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to follow live reviews")
	}

	backoff := retry.WithCappedDuration(watchMaxBackoff, retry.NewExponential(watchInitialBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := e.consume(ctx, meal); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if e.logg != nil {
				e.logg.Warn(ctx, "review stream dropped, reconnecting")
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (e *Engine) consume(ctx context.Context, meal string) error {
	sub, err := e.remote.Watch(ctx, meal, e.window)
	if err != nil {
		return err
	}
	defer sub.Cancel()

	for list := range sub.Snapshots() {
		e.cache.Replace(ctx, meal, capList(list, e.window))
	}
	return sub.Err()
}

// applyOptimistic runs the three-phase protocol shared by every mutation:
// retain the prior list, apply the speculative transition, attempt the remote
// effect, and restore the retained list when the effect fails.
func (e *Engine) applyOptimistic(ctx context.Context, meal, op string, transition func(prior []Review) []Review, effect func() error) error {
	prior := e.cache.Get(meal)
	e.cache.Replace(ctx, meal, transition(prior))

	start := time.Now()
	err := effect()
	e.metrics.ObserveDuration(op, time.Since(start))
	if err != nil {
		e.cache.Replace(ctx, meal, prior)
		e.metrics.IncFailure(op)
		e.metrics.IncRollback(op)
		return e.classify(op, err)
	}
	e.online.Store(true)
	e.metrics.IncSuccess(op)
	return nil
}

// classify resolves a remote failure to the user-facing taxonomy and keeps
// the connectivity flag in step: a transport-level offline failure trips the
// flag, and any successful remote effect clears it again. While the flag is
// down every failure reports as offline so cached-data messaging stays
// consistent until the backend answers.
func (e *Engine) classify(op string, err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeOffline) {
		e.online.Store(false)
	}
	if !e.Online() {
		return pkgerrors.Wrap(pkgerrors.CodeOffline, err, "no connection, cached data shown")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("review %s failed", op))
}

func capList(list []Review, window int) []Review {
	if len(list) > window {
		return list[:window]
	}
	return list
}

func removeByID(list []Review, id Identifier) []Review {
	kept := make([]Review, 0, len(list))
	for _, review := range list {
		if review.ID == id {
			continue
		}
		kept = append(kept, review)
	}
	return kept
}
