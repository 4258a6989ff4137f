package services

import (
	"errors"
	"fmt"
	"strings"

	"premiumblog/internal/authz"
	"premiumblog/internal/models"
	"premiumblog/internal/repositories"
)

type UserService interface {
	GetUserByID(id int) (*models.User, error)
	GetPublicProfile(id int) (*models.PublicProfile, error)
	UpdateProfile(id int, req *models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(id int, currentPassword, newPassword string) error
	Deactivate(id int, password string) error
	GetBillingHistory(id int) ([]models.BillingEntry, error)

	// администрирование
	ListUsers(limit, offset int) ([]*models.User, error)
	UpdateRole(id int, role string) error
	DeleteUser(id int) error
	DashboardStats() (*models.DashboardStats, error)
}

type userService struct {
	repo repositories.UserRepository
	auth AuthService
}

func NewUserService(repo repositories.UserRepository, auth AuthService) UserService {
	return &userService{repo: repo, auth: auth}
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *userService) GetPublicProfile(id int) (*models.PublicProfile, error) {
	u, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *userService) UpdateProfile(id int, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(req.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(req.Username); v != "" {
		user.Username = v
	}
	if v := strings.TrimSpace(strings.ToLower(req.Email)); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(req.Country); v != "" {
		user.Country = v
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if user.Email == "" && user.Phone == "" {
		return nil, Validation("email or phone number is required")
	}

	conflict, err := s.repo.HasConflict(user.Email, user.Username, user.Phone, user.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(id int, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return Validation("current password and new password are required")
	}
	if len(newPassword) < 7 {
		return Validation("password must contain at least 7 characters")
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if !s.auth.CheckPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(id, hash)
}

func (s *userService) Deactivate(id int, password string) error {
	if password == "" {
		return Validation("password is required to deactivate account")
	}
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if !s.auth.CheckPassword(user.PasswordHash, password) {
		return ErrInvalidCredentials
	}
	return s.repo.SetActive(id, false)
}

func (s *userService) GetBillingHistory(id int) ([]models.BillingEntry, error) {
	if _, err := s.GetUserByID(id); err != nil {
		return nil, err
	}
	// биллинг ещё не подключён; отдаём пустую историю
	return []models.BillingEntry{}, nil
}

func (s *userService) ListUsers(limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

func (s *userService) UpdateRole(id int, role string) error {
	if !authz.IsValidRole(role) {
		return Validation(fmt.Sprintf("unknown role %q", role))
	}
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	return s.repo.UpdateRole(id, role)
}

func (s *userService) DeleteUser(id int) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *userService) DashboardStats() (*models.DashboardStats, error) {
	total, err := s.repo.GetCount()
	if err != nil {
		return nil, err
	}
	verified, err := s.repo.GetVerifiedCount()
	if err != nil {
		return nil, err
	}
	admins, err := s.repo.GetCountByRole(authz.RoleAdmin)
	if err != nil {
		return nil, err
	}
	moderators, err := s.repo.GetCountByRole(authz.RoleModerator)
	if err != nil {
		return nil, err
	}
	return &models.DashboardStats{
		TotalUsers:    total,
		VerifiedUsers: verified,
		Admins:        admins,
		Moderators:    moderators,
	}, nil
}
