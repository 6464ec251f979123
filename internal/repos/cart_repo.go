package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ID                  string          `db:"id" json:"id"`
	ProductID           string          `db:"product_id" json:"product_id"`
	ProductName         string          `db:"product_name" json:"product_name"`
	Price               decimal.Decimal `db:"price" json:"price"`
	Quantity            int             `db:"quantity" json:"quantity"`
	Subtotal            decimal.Decimal `db:"subtotal" json:"subtotal"`
	IsAvailable         bool            `db:"is_available" json:"is_available"`
	SpecialInstructions string          `db:"special_instructions" json:"special_instructions,omitempty"`
}

func (r *CartRepo) Items(customerID string) ([]CartItemRow, error) {
	out := []CartItemRow{}
	err := r.db.Select(&out, `
	  SELECT ci.id, ci.product_id, p.name AS product_name, p.price, ci.quantity,
	         (p.price * ci.quantity) AS subtotal, p.is_available,
	         COALESCE(ci.special_instructions,'') AS special_instructions
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id
	  WHERE ci.customer_id = ?
	  ORDER BY ci.created_at DESC
	`, customerID)
	return out, err
}

// Upsert merges quantity when the product is already in the cart.
func (r *CartRepo) Upsert(customerID, productID string, qty int, instructions string) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(id, customer_id, product_id, quantity, special_instructions)
	  VALUES(?, ?, ?, ?, NULLIF(?, ''))
	  ON CONFLICT(customer_id, product_id) DO UPDATE
	  SET quantity = quantity + excluded.quantity,
	      special_instructions = COALESCE(excluded.special_instructions, cart_items.special_instructions),
	      updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), customerID, productID, qty, instructions)
	return err
}

func (r *CartRepo) UpdateItem(itemID string, qty int, instructions string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE cart_items
	  SET quantity = ?, special_instructions = NULLIF(?, ''), updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, qty, instructions, itemID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) Remove(itemID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ?`, itemID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) Clear(customerID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE customer_id = ?`, customerID)
	return err
}
