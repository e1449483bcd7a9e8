package session

// ProviderOutcome is the tagged result of one identity provider's
// attempt. A zero outcome means the provider was never run.
type ProviderOutcome struct {
	User *UserProfile
	Err  error
}

// Succeeded reports whether the provider produced a usable user
func (o ProviderOutcome) Succeeded() bool {
	return o.Err == nil && o.User != nil
}

// Ran reports whether the provider was attempted at all
func (o ProviderOutcome) Ran() bool {
	return o.Err != nil || o.User != nil
}

// Reconcile merges the two provider outcomes of a dual-provider login.
// The merge policy is last-writer-wins with the backend as the last
// writer: when both providers succeed the backend's richer profile
// supersedes the federated one field-wise. If only one produced a user,
// that user is the session user. When both failed the federated error
// wins (it ran first and is the more specific of the two); when neither
// ran the failure is generic.
func Reconcile(fed, backend ProviderOutcome) (*UserProfile, error) {
	switch {
	case fed.Succeeded() && backend.Succeeded():
		return MergeProfile(fed.User, backend.User), nil
	case backend.Succeeded():
		return backend.User, nil
	case fed.Succeeded():
		return fed.User, nil
	}

	if fed.Err != nil {
		return nil, fed.Err
	}
	if backend.Err != nil {
		return nil, backend.Err
	}
	return nil, ErrLoginFailed
}
