package models

import "time"

// Contact is a message left through the public contact form.
type Contact struct {
	ID        string        `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Name      string        `json:"name" bson:"name" gorm:"type:varchar(200);not null"`
	Email     string        `json:"email" bson:"email" gorm:"type:varchar(255);not null"`
	Phone     string        `json:"phone,omitempty" bson:"phone,omitempty" gorm:"type:varchar(32)"`
	Message   string        `json:"message" bson:"message" gorm:"type:text;not null"`
	Status    ContactStatus `json:"status" bson:"status" gorm:"type:varchar(16);index"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}
