package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"premiumblog/internal/models"
)

// ErrDuplicate — нарушение уникальности (email/username/phone).
// БД выступает арбитром при гонке двух одинаковых регистраций.
var ErrDuplicate = errors.New("duplicate identifier")

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByIdentifier(ident models.Identifier) (*models.User, error)
	GetByIdentifierAndRole(ident models.Identifier, role string) (*models.User, error)
	HasConflict(email, username, phone string, excludeID int) (bool, error)
	Update(user *models.User) error
	UpdatePassword(id int, passwordHash string) error
	MarkVerified(id int) error
	SetActive(id int, active bool) error
	UpdateRole(id int, role string) error
	Delete(id int) error
	List(limit, offset int) ([]*models.User, error)
	GetCount() (int, error)
	GetCountByRole(role string) (int, error)
	GetVerifiedCount() (int, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, first_name, last_name, username,
	COALESCE(email,''), COALESCE(phone,''), country,
	password_hash, role,
	is_verified, verified_at, is_active,
	COALESCE(bio,''), COALESCE(avatar_url,''), subscription,
	created_at
`

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			first_name, last_name, username, email, phone, country,
			password_hash, role, is_verified, is_active, subscription
		)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,$7,$8,FALSE,TRUE,$9)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.Phone,
		user.Country,
		user.PasswordHash,
		user.Role,
		user.Subscription,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var verifiedAt sql.NullTime
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username,
		&u.Email, &u.Phone, &u.Country,
		&u.PasswordHash, &u.Role,
		&u.IsVerified, &verifiedAt, &u.IsActive,
		&u.Bio, &u.AvatarURL, &u.Subscription,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		u.VerifiedAt = &t
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.DB.QueryRow(q, id))
}

func identifierColumn(ident models.Identifier) string {
	if ident.Kind == models.IdentifierPhone {
		return "phone"
	}
	return "email"
}

func (r *userRepository) GetByIdentifier(ident models.Identifier) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + identifierColumn(ident) + ` = $1`
	return r.scanUser(r.DB.QueryRow(q, ident.Value))
}

func (r *userRepository) GetByIdentifierAndRole(ident models.Identifier, role string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + identifierColumn(ident) + ` = $1 AND role = $2`
	return r.scanUser(r.DB.QueryRow(q, ident.Value, role))
}

// HasConflict — есть ли другой аккаунт с таким email, username или phone.
// excludeID=0 — проверка при регистрации, иначе — при обновлении профиля.
func (r *userRepository) HasConflict(email, username, phone string, excludeID int) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE (email = NULLIF($1,'') OR username = NULLIF($2,'') OR phone = NULLIF($3,''))
			  AND id <> $4
		)
	`
	var exists bool
	if err := r.DB.QueryRow(q, email, username, phone, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("user conflict check: %w", err)
	}
	return exists, nil
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET
			first_name=$1,
			last_name=$2,
			username=$3,
			email=NULLIF($4,''),
			phone=NULLIF($5,''),
			country=$6,
			bio=NULLIF($7,''),
			avatar_url=NULLIF($8,''),
			subscription=$9
		WHERE id=$10
	`
	_, err := r.DB.Exec(q,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.Phone,
		user.Country,
		user.Bio,
		user.AvatarURL,
		user.Subscription,
		user.ID,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	return err
}

func (r *userRepository) MarkVerified(id int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET is_verified=TRUE, verified_at=NOW()
		WHERE id=$1 AND is_verified=FALSE
	`, id)
	return err
}

func (r *userRepository) SetActive(id int, active bool) error {
	_, err := r.DB.Exec(`UPDATE users SET is_active=$1 WHERE id=$2`, active, id)
	return err
}

func (r *userRepository) UpdateRole(id int, role string) error {
	_, err := r.DB.Exec(`UPDATE users SET role=$1 WHERE id=$2`, role, id)
	return err
}

func (r *userRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u := &models.User{}
		var verifiedAt sql.NullTime
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Username,
			&u.Email, &u.Phone, &u.Country,
			&u.PasswordHash, &u.Role,
			&u.IsVerified, &verifiedAt, &u.IsActive,
			&u.Bio, &u.AvatarURL, &u.Subscription,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		if verifiedAt.Valid {
			t := verifiedAt.Time
			u.VerifiedAt = &t
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&c)
	return c, err
}

func (r *userRepository) GetCountByRole(role string) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&c)
	return c, err
}

func (r *userRepository) GetVerifiedCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE is_verified`).Scan(&c)
	return c, err
}
