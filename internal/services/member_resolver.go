package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"relation-service/internal/models"
)

// MemberResolver resolves raw member ids against the member API. Every
// coordinator entry point validates its participants through this before
// touching relationship state.
type MemberResolver interface {
	ResolveActiveMember(ctx context.Context, id int64) (*models.Member, error)
}

type memberResolver struct {
	client  *http.Client
	baseURL string
}

func NewMemberResolver(baseURL string) MemberResolver {
	return &memberResolver{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
	}
}

func (r *memberResolver) ResolveActiveMember(ctx context.Context, id int64) (*models.Member, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/members/%d", r.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrMemberNotActive
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("member service returned status %d", resp.StatusCode)
	}

	var member models.Member
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, ErrMemberNotActive
	}
	return &member, nil
}
