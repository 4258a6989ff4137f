package services

import (
	"fmt"
	"log"
	"strings"

	"premiumblog/internal/authz"
	"premiumblog/internal/models"
	"premiumblog/internal/repositories"
)

// PasswordResetService — сброс пароля через подписанный токен.
// Токен нигде не хранится: его валидность доказывают подпись и exp.
type PasswordResetService interface {
	// RequestReset возвращает токен только когда у аккаунта нет email
	// (доставить ссылку некуда); иначе токен уходит письмом.
	RequestReset(ident models.Identifier, role string) (token string, emailed bool, err error)
	ResetPassword(token, newPassword, role string) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	tokens   TokenService
	auth     AuthService
	emails   EmailService
	alerts   *AlertService
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	tokens TokenService,
	auth AuthService,
	emails EmailService,
	alerts *AlertService,
) PasswordResetService {
	return &passwordResetService{
		userRepo: userRepo,
		tokens:   tokens,
		auth:     auth,
		emails:   emails,
		alerts:   alerts,
	}
}

func (s *passwordResetService) RequestReset(ident models.Identifier, role string) (string, bool, error) {
	if ident.IsZero() {
		return "", false, Validation("please provide email or phone number")
	}

	var user *models.User
	var err error
	if role == authz.RoleAdmin {
		user, err = s.userRepo.GetByIdentifierAndRole(ident, role)
	} else {
		user, err = s.userRepo.GetByIdentifier(ident)
	}
	if err != nil {
		return "", false, err
	}
	if user == nil {
		return "", false, ErrNotFound
	}

	token, err := s.tokens.IssueResetToken(user.ID, user.Role)
	if err != nil {
		return "", false, fmt.Errorf("issue reset token: %w", err)
	}

	if role == authz.RoleAdmin {
		s.alerts.AdminResetRequested(user.Username)
	}

	if user.Email != "" {
		email, name := user.Email, user.FirstName
		dispatch("reset-link", func() error {
			return s.emails.SendPasswordResetEmail(email, token, name)
		})
		return "", true, nil
	}
	// аккаунт только с телефоном: письмо отправить некуда,
	// токен отдаётся в ответе (осознанный компромисс)
	return token, false, nil
}

func (s *passwordResetService) ResetPassword(token, newPassword, role string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return Validation("token and new password are required")
	}
	if len(newPassword) < 7 {
		return Validation("password must contain at least 7 characters")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err // ErrInvalidToken / ErrExpiredToken
	}
	// токен админского флоу не работает в пользовательском и наоборот
	if (role == authz.RoleAdmin) != (claims.Role == authz.RoleAdmin) {
		return ErrForbidden
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return err
	}
	log.Printf("[password-reset] password updated user_id=%d", user.ID)

	if user.Email != "" {
		email, name := user.Email, user.FirstName
		dispatch("reset-confirmation", func() error {
			return s.emails.SendResetConfirmationEmail(email, name)
		})
	}
	return nil
}
