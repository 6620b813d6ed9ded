package models

import "time"

// Category is a keyword tag that plants reference by id.
type Category struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Keywords  []string  `json:"keywords" bson:"keywords" gorm:"type:text;not null;uniqueIndex;serializer:json"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
