package models

import "time"

// UserAccount represents a registered user.
type UserAccount struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"` // bcrypt hash, never returned
	Name      string    `bson:"name" json:"name"`
	Gender    Gender    `bson:"gender" json:"gender"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Preferences is the per-user preference blob kept in the session store,
// keyed by user id.
type Preferences struct {
	Gender     Gender `json:"gender"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	ModelImage string `json:"model_image,omitempty"`
}
