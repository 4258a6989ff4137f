package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"premiumblog/internal/authz"
	"premiumblog/internal/models"
	"premiumblog/internal/repositories"
	"premiumblog/internal/utils"
)

const defaultOTPTTL = 5 * time.Minute

// SMSSender — канал доставки кода для аккаунтов без email.
// Реализуется utils.Client (Mobizon).
type SMSSender interface {
	SendSMS(to, text string) (*utils.SendSMSResponse, error)
}

// AccountService — регистрация, подтверждение кодом и вход.
// Один и тот же флоу обслуживает и пользователей, и админов:
// различие только в параметре role и адресатах уведомлений.
type AccountService interface {
	Register(req *models.RegisterRequest, role string) (*models.User, error)
	VerifyOTP(ident models.Identifier, code, role string) error
	ResendOTP(ident models.Identifier, role string) error
	Login(ident models.Identifier, password, role string) (*models.User, string, error)
}

type accountService struct {
	userRepo  repositories.UserRepository
	verifRepo repositories.UserVerificationRepository
	auth      AuthService
	tokens    TokenService
	emails    EmailService
	sms       SMSSender
	alerts    *AlertService
	otpTTL    time.Duration
}

func NewAccountService(
	userRepo repositories.UserRepository,
	verifRepo repositories.UserVerificationRepository,
	auth AuthService,
	tokens TokenService,
	emails EmailService,
	sms SMSSender,
	alerts *AlertService,
	otpTTL time.Duration,
) AccountService {
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	return &accountService{
		userRepo:  userRepo,
		verifRepo: verifRepo,
		auth:      auth,
		tokens:    tokens,
		emails:    emails,
		sms:       sms,
		alerts:    alerts,
		otpTTL:    otpTTL,
	}
}

// generateOTP — 6-значный код из [100000, 999999].
func generateOTP() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

// dispatch — уведомления не должны блокировать и ронять основной ответ.
func dispatch(tag string, fn func() error) {
	go func() {
		if err := fn(); err != nil {
			log.Printf("[notify][%s] %v", tag, err)
		}
	}()
}

func (s *accountService) Register(req *models.RegisterRequest, role string) (*models.User, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	phone := strings.TrimSpace(req.Phone)
	country := strings.TrimSpace(req.Country)

	if firstName == "" || lastName == "" || username == "" || country == "" || req.Password == "" {
		return nil, Validation("please provide all required fields")
	}
	if email == "" && phone == "" {
		return nil, Validation("email or phone number is required")
	}
	if len(req.Password) < 7 {
		return nil, Validation("password must contain at least 7 characters")
	}
	if !authz.IsValidRole(role) {
		return nil, Validation("unknown role")
	}

	conflict, err := s.userRepo.HasConflict(email, username, phone, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		Email:        email,
		Phone:        phone,
		Country:      country,
		PasswordHash: hash,
		Role:         role,
		Subscription: "free",
	}
	if err := s.userRepo.Create(user); err != nil {
		// гонка двух одинаковых регистраций: проигравший получает конфликт
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := s.issueOTP(user); err != nil {
		// аккаунт уже создан; код можно перезапросить через resend
		log.Printf("[register] OTP issue failed for user_id=%d: %v", user.ID, err)
		return user, nil
	}

	if user.Email != "" {
		dispatch("welcome", func() error {
			return s.emails.SendWelcomeEmail(user.Email, user.FirstName, user.Role)
		})
	}
	if role == authz.RoleAdmin {
		s.alerts.AdminRegistered(user.Username)
	}
	return user, nil
}

// issueOTP — новый код вытесняет предыдущий; наружу уходит только хэш.
func (s *accountService) issueOTP(user *models.User) error {
	code := generateOTP()
	codeHashBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt generate: %w", err)
	}

	sentAt := time.Now()
	if _, err := s.verifRepo.Replace(user.ID, string(codeHashBytes), sentAt, sentAt.Add(s.otpTTL)); err != nil {
		return err
	}

	if user.Email != "" {
		dispatch("otp-email", func() error {
			return s.emails.SendOTPEmail(user.Email, code)
		})
	} else if user.Phone != "" && s.sms != nil {
		phone := user.Phone
		dispatch("otp-sms", func() error {
			_, err := s.sms.SendSMS(phone, fmt.Sprintf("Premium Blog verification code: %s", code))
			return err
		})
	}
	return nil
}

// findAccount — админский вариант ищет только среди role=admin,
// чтобы обычный аккаунт на админском эндпоинте выглядел как несуществующий.
func (s *accountService) findAccount(ident models.Identifier, role string) (*models.User, error) {
	if role == authz.RoleAdmin {
		return s.userRepo.GetByIdentifierAndRole(ident, role)
	}
	return s.userRepo.GetByIdentifier(ident)
}

func (s *accountService) VerifyOTP(ident models.Identifier, code, role string) error {
	if ident.IsZero() || strings.TrimSpace(code) == "" {
		return Validation("email or phone number and OTP are required")
	}

	user, err := s.findAccount(ident, role)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	v, err := s.verifRepo.GetByUserID(user.ID)
	if err != nil {
		return err
	}
	if v == nil {
		// не выдан или уже использован — для клиента одно и то же
		return ErrInvalidOTP
	}
	if v.Expired(time.Now()) {
		// просроченная запись равнозначна отсутствующей
		if err := s.verifRepo.DeleteByUserID(user.ID); err != nil {
			log.Printf("[verify] purge expired OTP failed for user_id=%d: %v", user.ID, err)
		}
		return ErrInvalidOTP
	}

	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		return ErrInvalidOTP
	}

	if err := s.userRepo.MarkVerified(user.ID); err != nil {
		return err
	}
	// код одноразовый: запись удаляется при успешном подтверждении
	if err := s.verifRepo.DeleteByUserID(user.ID); err != nil {
		return err
	}

	if user.Email != "" {
		dispatch("welcome", func() error {
			return s.emails.SendWelcomeEmail(user.Email, user.FirstName, user.Role)
		})
	}
	log.Printf("[verify] OK user_id=%d", user.ID)
	return nil
}

func (s *accountService) ResendOTP(ident models.Identifier, role string) error {
	if ident.IsZero() {
		return Validation("email or phone number is required")
	}

	user, err := s.findAccount(ident, role)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	// старые коды сносим все разом; знать предыдущий код не нужно
	if err := s.verifRepo.DeleteByUserID(user.ID); err != nil {
		return err
	}
	return s.issueOTP(user)
}

func (s *accountService) Login(ident models.Identifier, password, role string) (*models.User, string, error) {
	if ident.IsZero() || password == "" {
		return nil, "", Validation("please provide email/phone and password")
	}

	user, err := s.findAccount(ident, role)
	if err != nil {
		return nil, "", err
	}
	// несуществующий аккаунт и неверный пароль отвечают одинаково
	if user == nil || !s.auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, "", ErrUnverifiedAccount
	}
	if !user.IsActive {
		return nil, "", ErrInactiveAccount
	}

	token, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue access token: %w", err)
	}
	log.Printf("[login] success user_id=%d role=%s", user.ID, user.Role)
	return user, token, nil
}
