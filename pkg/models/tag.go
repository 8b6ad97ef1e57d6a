package model

type Tag struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID string `gorm:"size:64;not null;uniqueIndex:idx_tags_owner_name" json:"owner_id"`
	Name    string `gorm:"not null;uniqueIndex:idx_tags_owner_name" json:"name"`
}
