package conduit

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Bio and Image have no value on registration and
// stay null until the user sets them.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordDigest string     `bun:"password_digest,notnull" json:"-"`
	Bio            *string    `bun:"bio" json:"bio,omitempty"`
	Image          *string    `bun:"image" json:"image,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Follow is a directional follower edge between two usernames. The pair is
// unique; following twice violates the constraint.
type Follow struct {
	bun.BaseModel `bun:"table:followers,alias:flw"`
	Follower      string     `bun:"follower,pk" json:"follower"`
	Followed      string     `bun:"followed,pk" json:"followed"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
