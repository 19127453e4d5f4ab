// internal/platform/secrets/secrets.go
package secrets

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Provider reads secrets from Google Secret Manager.
type Provider struct {
	sm        *secretmanager.Client
	projectID string
}

func NewProvider(ctx context.Context, projectID string) (*Provider, error) {
	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return nil, errors.New("secrets: projectID is empty")
	}
	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Provider{sm: sm, projectID: prj}, nil
}

// Get resolves the latest version of the named secret and returns its
// trimmed payload.
func (p *Provider) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errors.New("secrets: provider not configured")
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secrets: secretID is empty")
	}

	name := "projects/" + p.projectID + "/secrets/" + sid + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

func (p *Provider) Close() error {
	if p == nil || p.sm == nil {
		return nil
	}
	return p.sm.Close()
}
