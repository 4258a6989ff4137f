package routes

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"premiumblog/internal/authz"
	"premiumblog/internal/handlers"
	"premiumblog/internal/models"
	"premiumblog/internal/pdf"
	"premiumblog/internal/repositories"
	"premiumblog/internal/services"
	"premiumblog/internal/utils"
)

// Поднимает полный роутер на in-memory репозиториях для сквозных тестов.

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{nextID: 1, byID: map[int]*models.User{}}
}

func (r *stubUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if (user.Email != "" && u.Email == user.Email) ||
			u.Username == user.Username ||
			(user.Phone != "" && u.Phone == user.Phone) {
			return repositories.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	cp := *user
	cp.IsVerified = false
	cp.IsActive = true
	r.byID[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *stubUserRepo) match(ident models.Identifier, u *models.User) bool {
	switch ident.Kind {
	case models.IdentifierEmail:
		return u.Email != "" && u.Email == ident.Value
	case models.IdentifierPhone:
		return u.Phone != "" && u.Phone == ident.Value
	}
	return false
}

func (r *stubUserRepo) GetByIdentifier(ident models.Identifier) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if r.match(ident, u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) GetByIdentifierAndRole(ident models.Identifier, role string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if r.match(ident, u) && u.Role == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) HasConflict(email, username, phone string, excludeID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.ID == excludeID {
			continue
		}
		if (email != "" && u.Email == email) ||
			(username != "" && u.Username == username) ||
			(phone != "" && u.Phone == phone) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[user.ID]; ok {
		cp := *user
		cp.PasswordHash = u.PasswordHash
		cp.IsVerified = u.IsVerified
		cp.IsActive = u.IsActive
		r.byID[user.ID] = &cp
	}
	return nil
}

func (r *stubUserRepo) UpdatePassword(id int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *stubUserRepo) MarkVerified(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok && !u.IsVerified {
		now := time.Now()
		u.IsVerified = true
		u.VerifiedAt = &now
	}
	return nil
}

func (r *stubUserRepo) SetActive(id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (r *stubUserRepo) UpdateRole(id int, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.Role = role
	}
	return nil
}

func (r *stubUserRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) List(limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*models.User
	for _, u := range r.byID {
		cp := *u
		res = append(res, &cp)
	}
	return res, nil
}

func (r *stubUserRepo) GetCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *stubUserRepo) GetCountByRole(role string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := 0
	for _, u := range r.byID {
		if u.Role == role {
			c++
		}
	}
	return c, nil
}

func (r *stubUserRepo) GetVerifiedCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := 0
	for _, u := range r.byID {
		if u.IsVerified {
			c++
		}
	}
	return c, nil
}

type stubVerifRepo struct {
	mu     sync.Mutex
	nextID int64
	byUser map[int]*models.UserVerification
}

func newStubVerifRepo() *stubVerifRepo {
	return &stubVerifRepo{nextID: 1, byUser: map[int]*models.UserVerification{}}
}

func (r *stubVerifRepo) Replace(userID int, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.byUser[userID] = &models.UserVerification{
		ID:        id,
		UserID:    userID,
		CodeHash:  codeHash,
		SentAt:    sentAt,
		ExpiresAt: expiresAt,
	}
	return id, nil
}

func (r *stubVerifRepo) GetByUserID(userID int) (*models.UserVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.byUser[userID]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *stubVerifRepo) DeleteByUserID(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}

type stubEmails struct {
	mu          sync.Mutex
	otpCodes    []string
	resetTokens []string
}

func (f *stubEmails) SendOTPEmail(email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otpCodes = append(f.otpCodes, code)
	return nil
}

func (f *stubEmails) SendWelcomeEmail(email, name, role string) error { return nil }

func (f *stubEmails) SendPasswordResetEmail(email, token, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetTokens = append(f.resetTokens, token)
	return nil
}

func (f *stubEmails) SendResetConfirmationEmail(email, name string) error { return nil }

func (f *stubEmails) lastResetToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.resetTokens) == 0 {
		return ""
	}
	return f.resetTokens[len(f.resetTokens)-1]
}

func (f *stubEmails) otpCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.otpCodes)
}

func (f *stubEmails) lastOTP() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.otpCodes) == 0 {
		return ""
	}
	return f.otpCodes[len(f.otpCodes)-1]
}

type stubSMS struct{}

func (stubSMS) SendSMS(to, text string) (*utils.SendSMSResponse, error) {
	return &utils.SendSMSResponse{}, nil
}

type testEnv struct {
	router *gin.Engine
	users  *stubUserRepo
	emails *stubEmails
	tokens services.TokenService
}

func newTestEnv(statementsDir string) *testEnv {
	gin.SetMode(gin.TestMode)

	users := newStubUserRepo()
	verifs := newStubVerifRepo()
	emails := &stubEmails{}

	auth := services.NewAuthService()
	tokens := services.NewTokenService([]byte("router-test-secret"), time.Hour, time.Hour)
	alerts := services.NewAlertService("", 0)
	accounts := services.NewAccountService(users, verifs, auth, tokens, emails, stubSMS{}, alerts, time.Minute)
	resets := services.NewPasswordResetService(users, tokens, auth, emails, alerts)
	userSvc := services.NewUserService(users, auth)

	statements := pdf.NewStatementGenerator(statementsDir)

	router := gin.New()
	SetupRoutes(
		router,
		handlers.NewAuthHandler(accounts, resets, authz.RoleUser),
		handlers.NewAuthHandler(accounts, resets, authz.RoleAdmin),
		handlers.NewUserHandler(userSvc, statements),
		handlers.NewAdminHandler(userSvc),
		tokens,
	)
	return &testEnv{router: router, users: users, emails: emails, tokens: tokens}
}
