// Package model defines the tracker's domain types.
package model

import "time"

// User is someone who logs exercises.
//
// The ID is generated by the store on creation (an xid in SQLite, an ObjectID
// hex string in MongoDB). Users are never updated or deleted once created.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"-"`
}
