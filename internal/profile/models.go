package profile

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Row mirrors profiles.
type Row struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	AvatarURL         string    `json:"avatar_url"`
	Bio               *string   `json:"bio"`
	IsAdmin           bool      `json:"is_admin"`
	ProfileVisibility string    `json:"profile_visibility"`
	CreatedAt         time.Time `json:"created_at"`
}

type User struct {
	ID                string  `json:"id"`
	Username          string  `json:"username"`
	DisplayName       string  `json:"displayName"`
	AvatarURL         string  `json:"avatarUrl"`
	Bio               *string `json:"bio,omitempty"`
	IsAdmin           bool    `json:"isAdmin,omitempty"`
	ProfileVisibility string  `json:"profileVisibility"`
}

func FromRow(r Row) User {
	vis := r.ProfileVisibility
	if vis == "" {
		vis = VisibilityPublic
	}
	return User{
		ID:                r.ID,
		Username:          r.Username,
		DisplayName:       r.DisplayName,
		AvatarURL:         r.AvatarURL,
		Bio:               r.Bio,
		IsAdmin:           r.IsAdmin,
		ProfileVisibility: vis,
	}
}

func (u User) Private() bool {
	return u.ProfileVisibility == VisibilityPrivate
}
