package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FirstName    string    `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName     string    `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password_hash" validate:"required"`
	IsAdmin      bool      `json:"is_admin" bson:"is_admin"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RegistrationRequest is the payload for creating a user account. The
// plaintext password never reaches a persisted document.
type RegistrationRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed access token plus the user it belongs
// to, with the password hash stripped by the User JSON tags.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Favorite is a user-to-product bookmark. Favorites are kept in their own
// collection with a unique (user_id, product_id) index instead of being
// embedded in the user document.
type Favorite struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	ProductID string    `json:"product_id" bson:"product_id" validate:"required,mongodb"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
