package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "User"
	RoleAdmin UserRole = "Admin"

	UserEntity = "user"
)

type User struct {
	ID             string    `bson:"_id" json:"user_id"`
	Username       string    `bson:"username" json:"username"`
	Email          string    `bson:"email" json:"email"`
	HashedPassword string    `bson:"hashed_password" json:"-"`
	Role           UserRole  `bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

var ValidUserRoles = map[string]bool{
	string(RoleUser):  true,
	string(RoleAdmin): true,
}

func IsValidUserRole(role string) bool {
	return ValidUserRoles[role]
}
