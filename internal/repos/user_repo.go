package repos

import (
	"github.com/jmoiron/sqlx"

	"sugarstudio/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, full_name, password_hash, role, is_active, created_at`

func (r *UserRepo) ByEmail(email string) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return u, err
}

func (r *UserRepo) ByID(id string) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	return u, err
}

func (r *UserRepo) EmailExists(email string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return n > 0, err
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.db.Exec(`
	  INSERT INTO users(id, email, full_name, password_hash, role)
	  VALUES(?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.FullName, u.Hash, u.Role)
	return err
}

func (r *UserRepo) UpdateProfile(id, fullName string) (bool, error) {
	res, err := r.db.Exec(`UPDATE users SET full_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, fullName, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *UserRepo) UpdatePassword(id, hash string) (bool, error) {
	res, err := r.db.Exec(`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, hash, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
