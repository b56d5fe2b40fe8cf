package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account. Membership fields are either all unset or all set,
// with MembershipStartDate not after MembershipEndDate.
type User struct {
	Base                `bson:",inline"`
	Username            string              `bson:"username" json:"username"`
	Password            string              `bson:"password" json:"-"` // bcrypt hash, hidden from JSON responses
	Role                Role                `bson:"role" json:"role"`
	CurrentMembership   *primitive.ObjectID `bson:"currentMembership" json:"currentMembership"`
	MembershipStartDate *time.Time          `bson:"membershipStartDate" json:"membershipStartDate"`
	MembershipEndDate   *time.Time          `bson:"membershipEndDate" json:"membershipEndDate"`
}

// UserSummary is how an account appears inside other documents' responses.
type UserSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Role     Role               `json:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Role: u.Role}
}
