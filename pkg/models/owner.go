package model

import "time"

// Owner is the anonymous identity a deployment signed in as. It is kept so
// that a restart resolves to the same tasks.
type Owner struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
