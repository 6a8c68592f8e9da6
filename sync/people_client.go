// ABOUTME: Google People API client for the lead import
// ABOUTME: Pages through the signed-in user's connections
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

const personFields = "names,emailAddresses,phoneNumbers,organizations,biographies"

// ConnectionSource returns one page of connections per call.
type ConnectionSource interface {
	Connections(ctx context.Context, pageToken string) (*people.ListConnectionsResponse, error)
}

type PeopleSource struct {
	svc *people.Service
}

// NewPeopleSource creates a People API client authenticated with token.
func NewPeopleSource(ctx context.Context, oauthCfg *oauth2.Config, token *oauth2.Token) (*PeopleSource, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	client := oauthCfg.Client(ctx, token)
	service, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return &PeopleSource{svc: service}, nil
}

func (p *PeopleSource) Connections(ctx context.Context, pageToken string) (*people.ListConnectionsResponse, error) {
	call := p.svc.People.Connections.List("people/me").
		PageSize(1000).
		PersonFields(personFields).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}
