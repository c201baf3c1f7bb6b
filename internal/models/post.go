package models

import "time"

// Category is the topic a post is filed under.
type Category string

const (
	CategoryVegetables   Category = "Vegetables"
	CategoryFlowers      Category = "Flowers"
	CategoryLandscaping  Category = "Landscaping"
	CategorySucculents   Category = "Succulents"
	CategoryIndoorPlants Category = "Indoor Plants"
	CategoryOthers       Category = "Others"
)

// Categories lists every accepted category.
var Categories = []Category{
	CategoryVegetables,
	CategoryFlowers,
	CategoryLandscaping,
	CategorySucculents,
	CategoryIndoorPlants,
	CategoryOthers,
}

// IsValidCategory reports whether s names a known category.
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Comment is embedded in its parent post; its ID is unique within that post.
type Comment struct {
	ID            string    `json:"id" bson:"_id"`
	CommentatorID string    `json:"commentatorId" bson:"commentatorId"`
	Comment       string    `json:"comment" bson:"comment"`
	IsDeleted     bool      `json:"isDeleted" bson:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Post is a piece of community content together with its comments.
type Post struct {
	ID            string       `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	AuthorID      string       `json:"authorId" gorm:"type:varchar(36);not null;index" bson:"authorId"`
	Author        *UserSummary `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID" bson:"-"`
	Title         string       `json:"title" gorm:"not null" bson:"title"`
	Content       string       `json:"content" gorm:"type:text;not null" bson:"content"`
	Category      Category     `json:"category" gorm:"type:varchar(32);not null;index" bson:"category"`
	Images        []string     `json:"images" gorm:"serializer:json;type:text" bson:"images"`
	IsPremium     bool         `json:"isPremium" gorm:"not null;default:false" bson:"isPremium"`
	UpVoteCount   int          `json:"upVoteCount" gorm:"not null;default:0" bson:"upVoteCount"`
	DownVoteCount int          `json:"downVoteCount" gorm:"not null;default:0" bson:"downVoteCount"`
	IsDeleted     bool         `json:"isDeleted" gorm:"not null;default:false;index" bson:"isDeleted"`
	Comments      []Comment    `json:"comments" gorm:"serializer:json;type:text" bson:"comments"`
	Version       int          `json:"-" gorm:"not null" bson:"version"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// FindComment returns a pointer into p.Comments for the given id, or nil.
func (p *Post) FindComment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// Public returns a copy of the post without soft-deleted comments.
func (p Post) Public() Post {
	visible := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if !c.IsDeleted {
			visible = append(visible, c)
		}
	}
	p.Comments = visible
	return p
}

// PublicPosts applies Public to every post in the slice.
func PublicPosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	for i := range posts {
		out[i] = posts[i].Public()
	}
	return out
}
