package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/validate"
)

// CatalogService covers products and categories: the storefront reads
// plus the staff-side writes.
type CatalogService struct {
	products   *repos.ProductRepo
	categories *repos.CategoryRepo
}

func NewCatalogService(products *repos.ProductRepo, categories *repos.CategoryRepo) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

func (s *CatalogService) Products(f repos.ProductFilter) ([]domain.Product, error) {
	out, err := s.products.List(f)
	if err != nil {
		return nil, domain.Storage("list products", err)
	}
	return out, nil
}

func (s *CatalogService) Product(id string) (domain.Product, error) {
	p, err := s.products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFoundf("product %s not found", id)
	}
	if err != nil {
		return domain.Product{}, domain.Storage("load product", err)
	}
	return p, nil
}

type ProductInput struct {
	CategoryID      string          `json:"category_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        string          `json:"image_url"`
	Ingredients     string          `json:"ingredients"`
	Allergens       string          `json:"allergens"`
	StockQuantity   int             `json:"stock_quantity"`
	PreparationTime int             `json:"preparation_time"`
	IsAvailable     bool            `json:"is_available"`
	IsFeatured      bool            `json:"is_featured"`
}

func (s *CatalogService) validateProduct(in ProductInput) error {
	if _, ok := validate.Name(in.Name); !ok {
		return domain.Validationf("product name is required and must be at most 60 characters")
	}
	if _, ok := validate.ID(in.CategoryID); !ok {
		return domain.Validationf("category id is required")
	}
	if in.Price.IsNegative() {
		return domain.Validationf("price cannot be negative")
	}
	if in.StockQuantity < 0 {
		return domain.Validationf("stock quantity cannot be negative")
	}
	if _, err := s.categories.Get(in.CategoryID); errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("category %s not found", in.CategoryID)
	} else if err != nil {
		return domain.Storage("load category", err)
	}
	return nil
}

func (s *CatalogService) CreateProduct(in ProductInput) (domain.Product, error) {
	if err := s.validateProduct(in); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:              uuid.NewString(),
		CategoryID:      in.CategoryID,
		Name:            in.Name,
		Description:     in.Description,
		Price:           in.Price,
		ImageURL:        in.ImageURL,
		Ingredients:     in.Ingredients,
		Allergens:       in.Allergens,
		StockQuantity:   in.StockQuantity,
		PreparationTime: in.PreparationTime,
		IsAvailable:     in.IsAvailable,
		IsFeatured:      in.IsFeatured,
	}
	if err := s.products.Create(&p); err != nil {
		return domain.Product{}, domain.Storage("create product", err)
	}
	return s.Product(p.ID)
}

// UpdateProduct edits catalog fields. Stock is managed separately via
// AdjustStock so an edit form cannot clobber concurrent sales.
func (s *CatalogService) UpdateProduct(id string, in ProductInput) (domain.Product, error) {
	if err := s.validateProduct(in); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:              id,
		CategoryID:      in.CategoryID,
		Name:            in.Name,
		Description:     in.Description,
		Price:           in.Price,
		ImageURL:        in.ImageURL,
		Ingredients:     in.Ingredients,
		Allergens:       in.Allergens,
		PreparationTime: in.PreparationTime,
		IsAvailable:     in.IsAvailable,
		IsFeatured:      in.IsFeatured,
	}
	ok, err := s.products.Update(&p)
	if err != nil {
		return domain.Product{}, domain.Storage("update product", err)
	}
	if !ok {
		return domain.Product{}, domain.NotFoundf("product %s not found", id)
	}
	return s.Product(id)
}

func (s *CatalogService) DeleteProduct(id string) error {
	ok, err := s.products.Delete(id)
	if err != nil {
		return domain.Storage("delete product", err)
	}
	if !ok {
		return domain.NotFoundf("product %s not found", id)
	}
	return nil
}

func (s *CatalogService) AdjustStock(id, op string, qty int) (domain.Product, error) {
	if qty < 0 {
		return domain.Product{}, domain.Validationf("quantity cannot be negative")
	}
	return s.products.AdjustStock(id, op, qty)
}

// lowStockThreshold mirrors the storefront badge: five or more on hand
// reads as in stock.
const lowStockThreshold = 5

func (s *CatalogService) Availability(id string) (domain.Availability, error) {
	p, err := s.Product(id)
	if err != nil {
		return domain.Availability{}, err
	}
	switch {
	case !p.IsAvailable || p.StockQuantity == 0:
		return domain.Availability{Status: "OUT_OF_STOCK"}, nil
	case p.StockQuantity < lowStockThreshold:
		return domain.Availability{Status: "LOW_STOCK", Qty: p.StockQuantity}, nil
	default:
		return domain.Availability{Status: "IN_STOCK", Qty: p.StockQuantity}, nil
	}
}

func (s *CatalogService) Categories(activeOnly bool) ([]domain.Category, error) {
	out, err := s.categories.List(activeOnly)
	if err != nil {
		return nil, domain.Storage("list categories", err)
	}
	return out, nil
}

func (s *CatalogService) Category(id string) (domain.Category, error) {
	c, err := s.categories.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.NotFoundf("category %s not found", id)
	}
	if err != nil {
		return domain.Category{}, domain.Storage("load category", err)
	}
	return c, nil
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (s *CatalogService) CreateCategory(in CategoryInput) (domain.Category, error) {
	if _, ok := validate.Name(in.Name); !ok {
		return domain.Category{}, domain.Validationf("category name is required and must be at most 60 characters")
	}
	dup, err := s.categories.NameExists(in.Name, "")
	if err != nil {
		return domain.Category{}, domain.Storage("check category name", err)
	}
	if dup {
		return domain.Category{}, domain.Validationf("category %q already exists", in.Name)
	}
	c := domain.Category{ID: uuid.NewString(), Name: in.Name, Description: in.Description, ImageURL: in.ImageURL}
	if err := s.categories.Create(&c); err != nil {
		return domain.Category{}, domain.Storage("create category", err)
	}
	return s.Category(c.ID)
}

func (s *CatalogService) UpdateCategory(id string, in CategoryInput) (domain.Category, error) {
	if _, ok := validate.Name(in.Name); !ok {
		return domain.Category{}, domain.Validationf("category name is required and must be at most 60 characters")
	}
	if _, err := s.Category(id); err != nil {
		return domain.Category{}, err
	}
	dup, err := s.categories.NameExists(in.Name, id)
	if err != nil {
		return domain.Category{}, domain.Storage("check category name", err)
	}
	if dup {
		return domain.Category{}, domain.Validationf("category %q already exists", in.Name)
	}
	c := domain.Category{ID: id, Name: in.Name, Description: in.Description, ImageURL: in.ImageURL}
	if err := s.categories.Update(&c); err != nil {
		return domain.Category{}, domain.Storage("update category", err)
	}
	return s.Category(id)
}

// DeactivateCategory soft-deletes; products keep their category_id.
func (s *CatalogService) DeactivateCategory(id string) error {
	ok, err := s.categories.Deactivate(id)
	if err != nil {
		return domain.Storage("deactivate category", err)
	}
	if !ok {
		return domain.NotFoundf("category %s not found", id)
	}
	return nil
}

func (s *CatalogService) CategoryStats() ([]repos.CategoryStat, error) {
	out, err := s.categories.Stats()
	if err != nil {
		return nil, domain.Storage("category stats", err)
	}
	return out, nil
}
