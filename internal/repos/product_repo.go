package repos

import (
	"database/sql"

	"sugarstudio/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, category_id, name, COALESCE(description,'') AS description, price,
  COALESCE(image_url,'') AS image_url, COALESCE(ingredients,'') AS ingredients,
  COALESCE(allergens,'') AS allergens, stock_quantity, COALESCE(preparation_time,0) AS preparation_time,
  is_available, is_featured, created_at, COALESCE(updated_at,'') AS updated_at`

// ProductFilter narrows List; zero values mean "no filter".
type ProductFilter struct {
	CategoryID string
	Q          string
	Available  *bool
	Featured   *bool
	Limit      int
	Offset     int
}

func (r *ProductRepo) List(f ProductFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		pat := "%" + f.Q + "%"
		args = append(args, pat, pat)
	}
	if f.Available != nil {
		where += ` AND is_available = ?`
		args = append(args, *f.Available)
	}
	if f.Featured != nil {
		where += ` AND is_featured = ?`
		args = append(args, *f.Featured)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)

	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// GetTx is the transactional lookup used by the order writer.
func (r *ProductRepo) GetTx(tx *sqlx.Tx, id string) (domain.Product, error) {
	var p domain.Product
	err := tx.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Create(p *domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, category_id, name, description, price, image_url,
	    ingredients, allergens, stock_quantity, preparation_time, is_available, is_featured)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL,
		p.Ingredients, p.Allergens, p.StockQuantity, p.PreparationTime, p.IsAvailable, p.IsFeatured)
	return err
}

func (r *ProductRepo) Update(p *domain.Product) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET category_id = ?, name = ?, description = ?, price = ?, image_url = ?,
	      ingredients = ?, allergens = ?, preparation_time = ?,
	      is_available = ?, is_featured = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL,
		p.Ingredients, p.Allergens, p.PreparationTime, p.IsAvailable, p.IsFeatured, p.ID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProductRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DecrementStockTx atomically subtracts qty if enough stock exists.
// The guard doubles as the oversell check: zero rows affected means
// insufficient stock and the caller must roll back.
func (r *ProductRepo) DecrementStockTx(tx *sqlx.Tx, productID string, qty int) error {
	res, err := tx.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity >= ?
	`, qty, productID, qty)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.Statef("insufficient stock for product %s", productID)
	}
	return nil
}

// RestoreStockTx is the inverse of DecrementStockTx, used by cancellation.
func (r *ProductRepo) RestoreStockTx(tx *sqlx.Tx, productID string, qty int) error {
	_, err := tx.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	return err
}

// AdjustStock applies a staff stock operation: add, subtract or set.
// Subtract uses the same guarded decrement as the order writer.
func (r *ProductRepo) AdjustStock(productID, op string, qty int) (domain.Product, error) {
	var res sql.Result
	var err error
	switch op {
	case "add":
		res, err = r.db.Exec(`UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, qty, productID)
	case "subtract":
		res, err = r.db.Exec(`UPDATE products SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock_quantity >= ?`, qty, productID, qty)
	case "set":
		res, err = r.db.Exec(`UPDATE products SET stock_quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, qty, productID)
	default:
		return domain.Product{}, domain.Validationf("invalid stock operation %q", op)
	}
	if err != nil {
		return domain.Product{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if op == "subtract" {
			return domain.Product{}, domain.Statef("insufficient stock for product %s", productID)
		}
		return domain.Product{}, domain.NotFoundf("product %s not found", productID)
	}
	return r.Get(productID)
}
