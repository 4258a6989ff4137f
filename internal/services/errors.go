package services

import "errors"

// Ошибки бизнес-уровня; хендлеры переводят их в HTTP-статусы.
// Всё неожиданное (БД, подпись) доходит до хендлера обычной ошибкой
// и превращается в 500 с общим сообщением.
var (
	ErrValidation = errors.New("validation failed")
	// ErrConflict намеренно не говорит, какое именно поле занято,
	// чтобы не давать перебирать чужие email/username.
	ErrConflict           = errors.New("identifier already in use")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverifiedAccount  = errors.New("account is not verified")
	ErrInactiveAccount    = errors.New("account is deactivated")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrForbidden          = errors.New("forbidden")
)

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// Validation — ошибка валидации с человеческим сообщением;
// errors.Is(err, ErrValidation) остаётся истинным.
func Validation(msg string) error { return &validationError{msg: msg} }
