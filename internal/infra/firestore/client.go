// internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// ClientWrapper wraps the Firestore client with its project settings.
type ClientWrapper struct {
	Client    *firestore.Client
	ProjectID string
}

// NewClient initializes a Firestore client. With an empty credentialsFile it
// falls back to Application Default Credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*ClientWrapper, error) {
	var (
		client *firestore.Client
		err    error
	)
	if credentialsFile != "" {
		client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &ClientWrapper{Client: client, ProjectID: projectID}, nil
}

// Ping tests the connection. Firestore has no ping API, so a cheap listing
// read stands in for one.
func (cw *ClientWrapper) Ping(ctx context.Context) error {
	if cw == nil || cw.Client == nil {
		return fmt.Errorf("firestore client is nil")
	}
	if _, err := cw.Client.Collections(ctx).GetAll(); err != nil {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Close()
}
