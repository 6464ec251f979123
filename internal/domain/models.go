package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	ImageURL    string `db:"image_url" json:"image_url,omitempty"`
	IsActive    bool   `db:"is_active" json:"is_active"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

type Product struct {
	ID              string          `db:"id" json:"id"`
	CategoryID      string          `db:"category_id" json:"category_id"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description,omitempty"`
	Price           decimal.Decimal `db:"price" json:"price"`
	ImageURL        string          `db:"image_url" json:"image_url,omitempty"`
	Ingredients     string          `db:"ingredients" json:"ingredients,omitempty"`
	Allergens       string          `db:"allergens" json:"allergens,omitempty"`
	StockQuantity   int             `db:"stock_quantity" json:"stock_quantity"`
	PreparationTime int             `db:"preparation_time" json:"preparation_time,omitempty"`
	IsAvailable     bool            `db:"is_available" json:"is_available"`
	IsFeatured      bool            `db:"is_featured" json:"is_featured"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	UpdatedAt       string          `db:"updated_at" json:"updated_at,omitempty"`
}

type Customer struct {
	ID        string `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	IsActive  bool   `db:"is_active" json:"is_active"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}
