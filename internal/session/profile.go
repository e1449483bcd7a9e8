package session

import (
	"encoding/json"
	"fmt"

	"github.com/gridlight/gridlight-cli/internal/api"
	"github.com/gridlight/gridlight-cli/internal/federated"
)

// UserProfile is the last-known profile of the signed-in user. Avatar
// is either a default-avatar identifier or a remote URL. ID is stable
// once assigned by the backend.
type UserProfile struct {
	ID                     string `json:"id"`
	Email                  string `json:"email"`
	FirstName              string `json:"firstName,omitempty"`
	LastName               string `json:"lastName,omitempty"`
	Avatar                 string `json:"avatar,omitempty"`
	Role                   string `json:"role,omitempty"`
	EmailVerified          bool   `json:"emailVerified"`
	HasCompletedOnboarding bool   `json:"hasCompletedOnboarding"`
}

// MergeProfile merges overlay onto base field-wise: non-empty overlay
// strings win, absent fields keep the base value. Boolean flags are
// OR-ed because a partial response cannot distinguish "false" from
// "not included", and neither flag is ever rescinded server-side
// without the whole session being invalidated.
func MergeProfile(base, overlay *UserProfile) *UserProfile {
	if base == nil {
		if overlay == nil {
			return nil
		}
		out := *overlay
		return &out
	}
	out := *base
	if overlay == nil {
		return &out
	}

	if overlay.ID != "" {
		out.ID = overlay.ID
	}
	if overlay.Email != "" {
		out.Email = overlay.Email
	}
	if overlay.FirstName != "" {
		out.FirstName = overlay.FirstName
	}
	if overlay.LastName != "" {
		out.LastName = overlay.LastName
	}
	if overlay.Avatar != "" {
		out.Avatar = overlay.Avatar
	}
	if overlay.Role != "" {
		out.Role = overlay.Role
	}
	out.EmailVerified = out.EmailVerified || overlay.EmailVerified
	out.HasCompletedOnboarding = out.HasCompletedOnboarding || overlay.HasCompletedOnboarding

	return &out
}

// FromBackend converts the backend's user payload
func FromBackend(p *api.UserPayload) *UserProfile {
	if p == nil {
		return nil
	}
	return &UserProfile{
		ID:                     p.ID,
		Email:                  p.Email,
		FirstName:              p.FirstName,
		LastName:               p.LastName,
		Avatar:                 p.Avatar,
		Role:                   p.Role,
		EmailVerified:          p.EmailVerified,
		HasCompletedOnboarding: p.HasCompletedOnboarding,
	}
}

// FromProfileDocument converts a federated profile-store document
func FromProfileDocument(doc *federated.ProfileDocument) *UserProfile {
	if doc == nil {
		return nil
	}
	return &UserProfile{
		ID:                     doc.UID,
		Email:                  doc.Email,
		FirstName:              doc.FirstName,
		LastName:               doc.LastName,
		Avatar:                 doc.Avatar,
		Role:                   doc.Role,
		EmailVerified:          doc.EmailVerified,
		HasCompletedOnboarding: doc.HasCompletedOnboarding,
	}
}

// MinimalProfile builds the degraded profile used when the federated
// sign-in succeeded but the profile-store fetch did not
func MinimalProfile(id *federated.Identity) *UserProfile {
	return &UserProfile{
		ID:            id.UID,
		Email:         id.Email,
		EmailVerified: id.EmailVerified,
	}
}

func encodeProfile(u *UserProfile) (string, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("failed to encode user profile: %w", err)
	}
	return string(raw), nil
}

func decodeProfile(raw string) (*UserProfile, error) {
	if raw == "" {
		return nil, nil
	}
	var u UserProfile
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("failed to decode cached user profile: %w", err)
	}
	return &u, nil
}
