package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// Client wraps the Firestore connection that acts as the system of record for
// meal reviews. Each meal title maps to its own collection.
type Client struct {
	raw    *firestore.Client
	prefix string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// NewClient creates a Firestore client for the configured database.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.FirestoreConfig, logg *logger.Logger) (*Client, error) {
	projectID := strings.TrimSpace(gcp.ProjectID)
	if projectID == "" {
		return nil, errProjectIDRequired
	}

	databaseID := strings.TrimSpace(cfg.DatabaseID)
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	raw, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, clientOptions(gcp)...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "firestore client initialized")
	}

	return &Client{raw: raw, prefix: strings.TrimSpace(cfg.CollectionPrefix)}, nil
}

func clientOptions(gcp config.GCPConfig) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(gcp.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	case strings.TrimSpace(gcp.ApplicationCredentials) != "":
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}
	return opts
}

// Collection resolves the collection holding the given meal's reviews.
func (c *Client) Collection(meal string) *firestore.CollectionRef {
	if c == nil || c.raw == nil {
		return nil
	}
	name := strings.TrimSpace(meal)
	if c.prefix != "" {
		name = c.prefix + name
	}
	return c.raw.Collection(name)
}

// Ping issues a cheap read to verify connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return errors.New("firestore client not initialized")
	}
	iter := c.raw.Collections(ctx)
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("listing collections: %w", err)
	}
	return nil
}

// Close releases the Firestore client resources.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// Classify maps a Firestore transport error onto the service error taxonomy.
func Classify(err error, msg string) *pkgerrors.Error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.PermissionDenied:
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, err, msg)
	case codes.NotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msg)
	case codes.Unavailable, codes.DeadlineExceeded:
		return pkgerrors.Wrap(pkgerrors.CodeOffline, err, msg)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
	}
}
