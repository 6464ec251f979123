package domain

const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	FullName  string `db:"full_name" json:"full_name"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"` // STAFF | ADMIN
	IsActive  bool   `db:"is_active" json:"is_active"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
