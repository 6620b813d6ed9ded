package models

import "time"

// Plant is a catalogue item.
type Plant struct {
	ID         string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Name       string    `json:"name" bson:"name" gorm:"type:varchar(200);not null;index"`
	Price      float64   `json:"price" bson:"price" gorm:"not null"`
	Categories []string  `json:"categories" bson:"categories" gorm:"type:text;serializer:json"`
	Available  bool      `json:"available" bson:"available" gorm:"index"`
	Image      string    `json:"image" bson:"image"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PlantUpdate carries a partial update. Nil fields are left untouched;
// a non-nil Categories replaces the whole list.
type PlantUpdate struct {
	Name       *string
	Price      *float64
	Available  *bool
	Categories []string
	Image      *string
}

// IsEmpty reports whether the update changes nothing.
func (u PlantUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.Available == nil && u.Categories == nil && u.Image == nil
}

// Apply copies the supplied fields onto p.
func (u PlantUpdate) Apply(p *Plant) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Available != nil {
		p.Available = *u.Available
	}
	if u.Categories != nil {
		p.Categories = u.Categories
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
}

// PlantView is a plant with the keyword names of its categories attached.
type PlantView struct {
	Plant
	CategoryNames []string `json:"categoryNames"`
}
