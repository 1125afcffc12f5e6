package entity

import (
	"time"
)

// User represents a registered user and their public profile.
type User struct {
	ID           string    `bson:"_id,omitempty" firestore:"-" json:"id"`
	Username     string    `bson:"username" firestore:"username" json:"username"`
	Email        string    `bson:"email" firestore:"email" json:"email"`
	PasswordHash string    `bson:"password_hash,omitempty" firestore:"passwordHash,omitempty" json:"-"`
	Location     string    `bson:"location" firestore:"location" json:"location"`
	Bio          string    `bson:"bio" firestore:"bio" json:"bio"`
	ProfileImage string    `bson:"profile_image" firestore:"profileImage" json:"profile_image"`
	CreatedAt    time.Time `bson:"created_at" firestore:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" firestore:"updatedAt" json:"updated_at"`
}

// ProfilePatch carries the editable profile fields. Nil fields are left untouched.
type ProfilePatch struct {
	Username     *string
	Location     *string
	Bio          *string
	ProfileImage *string
}

// DisplayName is the name shown as a post author.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
