package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	VerificationSubject  = "EcoBloom OTP Verification"
	PasswordResetSubject = "EcoBloom Password Reset OTP"
)

var otpHTML = template.Must(template.New("otp").Parse(`
<div style="font-family:Arial,Helvetica,sans-serif;max-width:600px;margin:auto;padding:20px;border:1px solid #eee;border-radius:10px;">
  <h2 style="color:#2e7d32;">EcoBloom Verification</h2>
  <p>Hi <b>{{.Name}}</b>,</p>
  <p>Your OTP code is:</p>
  <div style="font-size:28px;font-weight:700;letter-spacing:4px;padding:10px 20px;background:#f4f6f8;border-radius:8px;display:inline-block;">{{.OTP}}</div>
  <p style="margin-top:20px;">This OTP will expire in <b>{{.Minutes}} minutes</b>.</p>
  <p style="font-size:12px;color:#888;">If you didn't request this, please ignore this email.</p>
  <hr/>
  <p style="font-size:12px;color:#aaa;">EcoBloom. Greenify your space.</p>
</div>`))

// OTPEmail renders the one-time code email.
func OTPEmail(to, subject, name, otp string, minutes int) (Message, error) {
	if name == "" {
		name = "User"
	}
	data := struct {
		Name    string
		OTP     string
		Minutes int
	}{name, otp, minutes}

	var html bytes.Buffer
	if err := otpHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("template execution error: %w", err)
	}
	text := fmt.Sprintf("Hi %s,\n\nYour EcoBloom OTP is: %s\nIt will expire in %d minutes.\n\nIf you didn't request this, please ignore.", name, otp, minutes)
	return Message{To: to, Subject: subject, Text: text, HTML: html.String()}, nil
}
