package model

import "time"

// BookingLock is an advisory lock used to serialize booking creation per
// product. The availability check and the insert run inside a transaction,
// but the lock keeps two concurrent requests for the same product from
// racing between check and insert.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
