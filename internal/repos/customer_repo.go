package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"sugarstudio/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `id, first_name, last_name, email, COALESCE(phone,'') AS phone,
  COALESCE(address,'') AS address, is_active, created_at, COALESCE(updated_at,'') AS updated_at`

type CustomerFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}

func (r *CustomerRepo) List(f CustomerFilter) ([]domain.Customer, error) {
	where := `1=1`
	args := []any{}
	if f.Search != "" {
		where += ` AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)`
		pat := "%" + f.Search + "%"
		args = append(args, pat, pat, pat)
	}
	if f.IsActive != nil {
		where += ` AND is_active = ?`
		args = append(args, *f.IsActive)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)

	out := []domain.Customer{}
	err := r.db.Select(&out, `
	  SELECT `+customerCols+` FROM customers
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *CustomerRepo) Get(id string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	return c, err
}

func (r *CustomerRepo) ByEmail(email string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `SELECT `+customerCols+` FROM customers WHERE LOWER(email) = LOWER(?)`, email)
	return c, err
}

func (r *CustomerRepo) Create(c *domain.Customer) error {
	_, err := r.db.Exec(`
	  INSERT INTO customers(id, first_name, last_name, email, phone, address)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address)
	return err
}

func (r *CustomerRepo) Update(c *domain.Customer) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE customers
	  SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?,
	      updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.ID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Deactivate soft-deletes a customer; order history is retained.
func (r *CustomerRepo) Deactivate(id string) (bool, error) {
	res, err := r.db.Exec(`UPDATE customers SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type CustomerStats struct {
	OrderCount    int             `db:"order_count" json:"order_count"`
	LifetimeSpend decimal.Decimal `db:"lifetime_spend" json:"lifetime_spend"`
}

func (r *CustomerRepo) Stats(id string) (CustomerStats, error) {
	var s CustomerStats
	err := r.db.Get(&s, `
	  SELECT COUNT(*) AS order_count, COALESCE(SUM(total_amount),0) AS lifetime_spend
	  FROM orders
	  WHERE customer_id = ? AND status != 'cancelled'
	`, id)
	return s, err
}
