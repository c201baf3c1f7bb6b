package services

// SignupInput is the body of POST /auth/signup. Public signups always get the user
// role; admins are created out of band (see cmd/seed).
type SignupInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Phone        string `json:"phone" validate:"omitempty,max=32"`
	Address      string `json:"address"`
	ProfileImage string `json:"profileImage" validate:"omitempty,url"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type ForgetPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UpdateProfileInput holds the fields a user may change on their own profile; nil
// fields are left untouched.
type UpdateProfileInput struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Password     *string `json:"password" validate:"omitempty,min=6"`
	Phone        *string `json:"phone" validate:"omitempty,max=32"`
	Address      *string `json:"address"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
}

type FavoriteInput struct {
	PostID string `json:"postId" validate:"required"`
}

type CreatePostInput struct {
	AuthorID  string   `json:"authorId" validate:"required"`
	Title     string   `json:"title" validate:"required,max=200"`
	Content   string   `json:"content" validate:"required"`
	Category  string   `json:"category" validate:"required,category"`
	Images    []string `json:"images" validate:"required,min=1,dive,url"`
	IsPremium bool     `json:"isPremium"`
}

// UpdatePostInput is a partial update; votes, comments and the deleted flag have their
// own operations.
type UpdatePostInput struct {
	Title     *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string  `json:"content" validate:"omitempty,min=1"`
	Category  *string  `json:"category" validate:"omitempty,category"`
	Images    []string `json:"images" validate:"omitempty,min=1,dive,url"`
	IsPremium *bool    `json:"isPremium"`
}

type CommentInput struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}
