package models

import "time"

// UserVerification — одноразовый код подтверждения аккаунта.
// Храним только bcrypt-хэш кода (CodeHash) и явный срок действия.
// На аккаунт живёт максимум одна запись: новая отправка заменяет старую.
type UserVerification struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	CodeHash  string    `json:"-"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (v *UserVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
