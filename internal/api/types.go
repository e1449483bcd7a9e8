package api

// Envelope is the common response shape of the backend session API.
// Every endpoint returns at least Success and an optional Message;
// login and refresh additionally carry tokens and a user object.
type Envelope struct {
	Success        bool         `json:"success"`
	Message        string       `json:"message,omitempty"`
	AccessToken    string       `json:"accessToken,omitempty"`
	RefreshToken   string       `json:"refreshToken,omitempty"`
	RequireRefresh bool         `json:"requireRefresh,omitempty"`
	User           *UserPayload `json:"user,omitempty"`
}

// UserPayload is the backend's user representation. Zero-valued fields
// mean "not included in this response", which is why profile merges are
// field-wise rather than wholesale.
type UserPayload struct {
	ID                     string `json:"id,omitempty"`
	Email                  string `json:"email,omitempty"`
	FirstName              string `json:"firstName,omitempty"`
	LastName               string `json:"lastName,omitempty"`
	Avatar                 string `json:"avatar,omitempty"`
	Role                   string `json:"role,omitempty"`
	EmailVerified          bool   `json:"emailVerified,omitempty"`
	HasCompletedOnboarding bool   `json:"hasCompletedOnboarding,omitempty"`
}

type loginRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ClientType      string `json:"clientType"`
	FederatedFailed bool   `json:"federatedSignInFailed,omitempty"`
}

type googleSignInRequest struct {
	IDToken    string `json:"idToken"`
	ClientType string `json:"clientType"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}
