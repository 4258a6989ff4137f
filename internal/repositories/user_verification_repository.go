package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"premiumblog/internal/models"
)

type UserVerificationRepository interface {
	Replace(userID int, codeHash string, sentAt, expiresAt time.Time) (int64, error)
	GetByUserID(userID int) (*models.UserVerification, error)
	DeleteByUserID(userID int) error
}

type userVerificationRepository struct {
	DB *sql.DB
}

func NewUserVerificationRepository(db *sql.DB) UserVerificationRepository {
	return &userVerificationRepository{DB: db}
}

// Replace — новая отправка кода вытесняет все предыдущие записи аккаунта.
func (r *userVerificationRepository) Replace(userID int, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	if _, err := r.DB.Exec(`DELETE FROM user_verifications WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("user_verification replace: %w", err)
	}
	const q = `
		INSERT INTO user_verifications (user_id, code_hash, sent_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.DB.QueryRow(q, userID, codeHash, sentAt, expiresAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("user_verification create: %w", err)
	}
	return id, nil
}

func (r *userVerificationRepository) GetByUserID(userID int) (*models.UserVerification, error) {
	const q = `
		SELECT id, user_id, code_hash, sent_at, expires_at
		FROM user_verifications
		WHERE user_id = $1
		ORDER BY sent_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, userID)
	var v models.UserVerification
	if err := row.Scan(&v.ID, &v.UserID, &v.CodeHash, &v.SentAt, &v.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user_verification get: %w", err)
	}
	return &v, nil
}

func (r *userVerificationRepository) DeleteByUserID(userID int) error {
	_, err := r.DB.Exec(`DELETE FROM user_verifications WHERE user_id = $1`, userID)
	return err
}
