package repos

import (
	"sugarstudio/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `id, name, COALESCE(description,'') AS description,
  COALESCE(image_url,'') AS image_url, is_active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) List(activeOnly bool) ([]domain.Category, error) {
	q := `SELECT ` + categoryCols + ` FROM categories`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY name`
	out := []domain.Category{}
	err := r.db.Select(&out, q)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return c, err
}

// NameExists checks for a duplicate name, optionally excluding one id.
func (r *CategoryRepo) NameExists(name, excludeID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM categories WHERE LOWER(name) = LOWER(?) AND id != ?`, name, excludeID)
	return n > 0, err
}

func (r *CategoryRepo) Create(c *domain.Category) error {
	_, err := r.db.Exec(`
	  INSERT INTO categories(id, name, description, image_url)
	  VALUES(?, ?, ?, ?)
	`, c.ID, c.Name, c.Description, c.ImageURL)
	return err
}

func (r *CategoryRepo) Update(c *domain.Category) error {
	_, err := r.db.Exec(`
	  UPDATE categories
	  SET name = ?, description = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, c.Name, c.Description, c.ImageURL, c.ID)
	return err
}

// Deactivate soft-deletes a category; referenced products keep their rows.
func (r *CategoryRepo) Deactivate(id string) (bool, error) {
	res, err := r.db.Exec(`UPDATE categories SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type CategoryStat struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	ProductCount int    `db:"product_count" json:"product_count"`
}

func (r *CategoryRepo) Stats() ([]CategoryStat, error) {
	out := []CategoryStat{}
	err := r.db.Select(&out, `
	  SELECT c.id, c.name, COUNT(p.id) AS product_count
	  FROM categories c
	  LEFT JOIN products p ON p.category_id = c.id
	  WHERE c.is_active = 1
	  GROUP BY c.id, c.name
	  ORDER BY c.name
	`)
	return out, err
}
