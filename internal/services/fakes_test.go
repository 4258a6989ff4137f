package services

import (
	"sync"
	"time"

	"premiumblog/internal/models"
	"premiumblog/internal/repositories"
	"premiumblog/internal/utils"
)

// In-memory фейки репозиториев и каналов доставки для юнит-тестов.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, byID: map[int]*models.User{}}
}

func (r *memUserRepo) Create(user *models.User) error {
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

func (r *memUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) match(ident models.Identifier, u *models.User) bool {
	switch ident.Kind {
	case models.IdentifierEmail:
		return u.Email != "" && u.Email == ident.Value
	case models.IdentifierPhone:
		return u.Phone != "" && u.Phone == ident.Value
	}
	return false
}

func (r *memUserRepo) GetByIdentifier(ident models.Identifier) (*models.User, error) {
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

func (r *memUserRepo) GetByIdentifierAndRole(ident models.Identifier, role string) (*models.User, error) {
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

func (r *memUserRepo) HasConflict(email, username, phone string, excludeID int) (bool, error) {
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

func (r *memUserRepo) Update(user *models.User) error {
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

func (r *memUserRepo) UpdatePassword(id int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *memUserRepo) MarkVerified(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok && !u.IsVerified {
		now := time.Now()
		u.IsVerified = true
		u.VerifiedAt = &now
	}
	return nil
}

func (r *memUserRepo) SetActive(id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (r *memUserRepo) UpdateRole(id int, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.Role = role
	}
	return nil
}

func (r *memUserRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memUserRepo) List(limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*models.User
	for _, u := range r.byID {
		cp := *u
		res = append(res, &cp)
	}
	return res, nil
}

func (r *memUserRepo) GetCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *memUserRepo) GetCountByRole(role string) (int, error) {
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

func (r *memUserRepo) GetVerifiedCount() (int, error) {
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

type memVerifRepo struct {
	mu     sync.Mutex
	nextID int64
	byUser map[int]*models.UserVerification
}

func newMemVerifRepo() *memVerifRepo {
	return &memVerifRepo{nextID: 1, byUser: map[int]*models.UserVerification{}}
}

func (r *memVerifRepo) Replace(userID int, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
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

func (r *memVerifRepo) GetByUserID(userID int) (*models.UserVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.byUser[userID]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *memVerifRepo) DeleteByUserID(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}

func (r *memVerifRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}

// forceExpire сдвигает срок действия кода в прошлое.
func (r *memVerifRepo) forceExpire(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.byUser[userID]; ok {
		v.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// fakeEmails записывает отправленные письма; уведомления уходят
// в горутинах, поэтому читать поля нужно через методы с мьютексом.
type fakeEmails struct {
	mu            sync.Mutex
	otpCodes      []string
	welcomes      []string
	resetTokens   []string
	confirmations []string
}

func (f *fakeEmails) SendOTPEmail(email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otpCodes = append(f.otpCodes, code)
	return nil
}

func (f *fakeEmails) SendWelcomeEmail(email, name, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes = append(f.welcomes, email)
	return nil
}

func (f *fakeEmails) SendPasswordResetEmail(email, token, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetTokens = append(f.resetTokens, token)
	return nil
}

func (f *fakeEmails) SendResetConfirmationEmail(email, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, email)
	return nil
}

func (f *fakeEmails) lastOTP() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.otpCodes) == 0 {
		return "", false
	}
	return f.otpCodes[len(f.otpCodes)-1], true
}

func (f *fakeEmails) otpCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.otpCodes)
}

func (f *fakeEmails) lastResetToken() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.resetTokens) == 0 {
		return "", false
	}
	return f.resetTokens[len(f.resetTokens)-1], true
}

type fakeSMS struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeSMS) SendSMS(to, text string) (*utils.SendSMSResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return &utils.SendSMSResponse{}, nil
}

func (f *fakeSMS) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}
