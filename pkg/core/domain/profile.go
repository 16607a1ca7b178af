package domain

import "time"

// Profile is the owner-facing profile record behind a public page.
type Profile struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Fullname    string    `json:"fullname"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	Template    string    `json:"template"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SocialLink is one social icon shown on the public page.
type SocialLink struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicPage is the assembled payload for GET /u/{username}: the profile,
// its active entries in render order, and its social icons.
type PublicPage struct {
	Profile     Profile      `json:"profile"`
	Entries     []Entry      `json:"entries"`
	SocialLinks []SocialLink `json:"social_links"`
	Template    string       `json:"template"`
}
