package models

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered member of the community.
type User struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name              string     `json:"name" gorm:"type:varchar(100);not null" bson:"name"`
	Email             string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_active_email,where:is_deleted = false" bson:"email"`
	Password          string     `json:"-" gorm:"type:varchar(255);not null" bson:"password"` // bcrypt hash, never serialized
	PasswordChangedAt *time.Time `json:"passwordChangedAt,omitempty" bson:"passwordChangedAt,omitempty"`
	Phone             string     `json:"phone" gorm:"type:varchar(32)" bson:"phone"`
	Address           string     `json:"address" bson:"address"`
	Role              Role       `json:"role" gorm:"type:varchar(16);not null;default:user" bson:"role"`
	ProfileImage      string     `json:"profileImage" bson:"profileImage"`
	ProfileVerified   bool       `json:"profileVerified" gorm:"not null;default:false" bson:"profileVerified"`
	IsDeleted         bool       `json:"isDeleted" gorm:"not null;default:false;index" bson:"isDeleted"`
	FavouritePosts    []string   `json:"favouritePosts" gorm:"serializer:json;type:text" bson:"favouritePosts"`
	Followers         []string   `json:"followers" gorm:"serializer:json;type:text" bson:"followers"`
	Followings        []string   `json:"followings" gorm:"serializer:json;type:text" bson:"followings"`
	Version           int        `json:"-" gorm:"not null" bson:"version"`
	CreatedAt         time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasFavorite reports whether postID is already in the user's favorites.
func (u *User) HasFavorite(postID string) bool {
	for _, id := range u.FavouritePosts {
		if id == postID {
			return true
		}
	}
	return false
}

// RemoveFavorite drops postID from the favorites and reports whether it was present.
func (u *User) RemoveFavorite(postID string) bool {
	kept := u.FavouritePosts[:0]
	removed := false
	for _, id := range u.FavouritePosts {
		if id == postID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	u.FavouritePosts = kept
	return removed
}

// UserSummary is the author projection joined onto posts.
type UserSummary struct {
	ID   string `json:"id" gorm:"primaryKey" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// TableName maps the summary onto the users table.
func (UserSummary) TableName() string {
	return "users"
}
