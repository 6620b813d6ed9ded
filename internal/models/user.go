package models

import "time"

// User represents an account of the store.
type User struct {
	ID           string     `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Name         string     `json:"name" bson:"name" gorm:"type:varchar(100);not null"`
	Number       string     `json:"number" bson:"number" gorm:"type:varchar(10);uniqueIndex;not null"`
	Email        string     `json:"email" bson:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password     string     `json:"-" bson:"password" gorm:"type:varchar(255)"` // bcrypt hash
	IsAdmin      bool       `json:"isAdmin" bson:"isAdmin"`
	IsVerified   bool       `json:"isVerified" bson:"isVerified"`
	OTP          string     `json:"-" bson:"otp" gorm:"type:varchar(64)"` // sha256 of the code
	OTPExpiredAt *time.Time `json:"-" bson:"otpExpiredAt"`
	OTPAttempts  int        `json:"-" bson:"otpAttempts" gorm:"not null;default:0"` // wrong codes against the pending OTP
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// HasPendingOTP reports whether an OTP was issued and not yet consumed.
func (u *User) HasPendingOTP() bool {
	return u.OTP != "" && u.OTPExpiredAt != nil
}

// Summary returns the fields shown alongside orders.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Number: u.Number}
}

// Principal is the identity carried by a verified session token.
type Principal struct {
	UserID  string
	IsAdmin bool
}
