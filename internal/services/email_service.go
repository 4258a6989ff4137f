package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendOTPEmail(email, code string) error
	SendWelcomeEmail(email, name, role string) error
	SendPasswordResetEmail(email, token, name string) error
	SendResetConfirmationEmail(email, name string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendOTPEmail(email, code string) error {
	body := fmt.Sprintf(`
		<h2>Verify your account</h2>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>The code expires in a few minutes. If you did not sign up, ignore this email.</p>
		<p>The Premium Blog Team</p>
	`, code)

	if err := s.send(email, "Verify Your Email - Premium Blog", body); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name, role string) error {
	var subject, body string
	if role == "admin" {
		subject = "Welcome Admin - Premium Blog"
		body = fmt.Sprintf(`
			<h2>Welcome to the Premium Blog admin panel, %s!</h2>
			<p>You've been registered as an <strong>admin</strong>.</p>
			<ul>
				<li>Manage users and subscriptions</li>
				<li>Publish and manage articles</li>
				<li>Monitor platform activity</li>
			</ul>
			<p><strong>The Premium Blog Team</strong></p>
		`, name)
	} else {
		subject = "Welcome to Premium Blog!"
		body = fmt.Sprintf(`
			<h2>Welcome to Premium Blog, %s!</h2>
			<p>We're excited to have you on board. Here's what you can do:</p>
			<ul>
				<li>Read all general news for free</li>
				<li>Subscribe to premium articles</li>
				<li>Customize your news feed</li>
			</ul>
			<p>Happy reading!<br><strong>The Premium Blog Team</strong></p>
		`, name)
	}

	if err := s.send(email, subject, body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordResetEmail(email, token, name string) error {
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>Hi %s, we received a request to reset the password for your account.</p>
		<p><a href="https://premiumblog.example/reset-password?token=%s">Reset your password</a></p>
		<p>The link is valid for one hour. If you did not request this change, you can ignore this email.</p>
	`, name, token)

	if err := s.send(email, "Password reset request", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *emailService) SendResetConfirmationEmail(email, name string) error {
	body := fmt.Sprintf(`
		<h3>Your password was changed</h3>
		<p>Hi %s, the password for your account was just reset.</p>
		<p>If this wasn't you, request a new reset immediately.</p>
	`, name)

	if err := s.send(email, "Your password was changed", body); err != nil {
		return fmt.Errorf("failed to send reset confirmation email: %w", err)
	}
	return nil
}
