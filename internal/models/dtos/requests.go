package dtos

// SignupRequest is the public waitlist signup payload. Clients cannot
// supply metadata; rows are always inserted with an empty object.
type SignupRequest struct {
	Email      string `json:"email"`
	ReferredBy string `json:"referredBy,omitempty"`
}

// NotifyRequest is the internal admin-notification payload. Every field is
// re-validated server side; the caller is authenticated by shared secret.
type NotifyRequest struct {
	Email        string `json:"email"`
	Position     int    `json:"position"`
	ReferredBy   string `json:"referredBy,omitempty"`
	TotalSignups int    `json:"totalSignups"`
}
