package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-character hexadecimal identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a 24-character hexadecimal identifier.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}
