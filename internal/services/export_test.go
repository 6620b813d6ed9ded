package services

import "time"

// SetAuthClock replaces the clock and OTP generator of s.
func SetAuthClock(s *AuthService, now func() time.Time, otp func() (string, error)) {
	s.now = now
	s.newOTP = otp
}

// SetOrderClock replaces the clock of s.
func SetOrderClock(s *OrderService, now func() time.Time) {
	s.now = now
}
