package model

// Profile is the authenticated user's identity as returned by /profile.
type Profile struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}
