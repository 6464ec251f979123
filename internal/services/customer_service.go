package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/validate"
)

type CustomerService struct {
	customers *repos.CustomerRepo
}

func NewCustomerService(customers *repos.CustomerRepo) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) List(f repos.CustomerFilter) ([]domain.Customer, error) {
	out, err := s.customers.List(f)
	if err != nil {
		return nil, domain.Storage("list customers", err)
	}
	return out, nil
}

func (s *CustomerService) Get(id string) (domain.Customer, error) {
	c, err := s.customers.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.NotFoundf("customer %s not found", id)
	}
	if err != nil {
		return domain.Customer{}, domain.Storage("load customer", err)
	}
	return c, nil
}

func (s *CustomerService) ByEmail(email string) (domain.Customer, error) {
	norm, okEmail := validate.Email(email)
	if !okEmail {
		return domain.Customer{}, domain.Validationf("a valid email is required")
	}
	c, err := s.customers.ByEmail(norm)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.NotFoundf("customer %s not found", norm)
	}
	if err != nil {
		return domain.Customer{}, domain.Storage("load customer", err)
	}
	return c, nil
}

type CustomerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (s *CustomerService) validate(in CustomerInput) (CustomerInput, error) {
	first, ok := validate.Name(in.FirstName)
	if !ok {
		return in, domain.Validationf("first name is required and must be at most 60 characters")
	}
	last, ok := validate.Name(in.LastName)
	if !ok {
		return in, domain.Validationf("last name is required and must be at most 60 characters")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return in, domain.Validationf("a valid email is required")
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		return in, domain.Validationf("invalid phone number")
	}
	in.FirstName, in.LastName, in.Email, in.Phone = first, last, email, phone
	return in, nil
}

func (s *CustomerService) Create(in CustomerInput) (domain.Customer, error) {
	in, err := s.validate(in)
	if err != nil {
		return domain.Customer{}, err
	}
	if _, err := s.customers.ByEmail(in.Email); err == nil {
		return domain.Customer{}, domain.Validationf("a customer with email %s already exists", in.Email)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.Storage("check customer email", err)
	}
	c := domain.Customer{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
	}
	if err := s.customers.Create(&c); err != nil {
		return domain.Customer{}, domain.Storage("create customer", err)
	}
	return s.Get(c.ID)
}

func (s *CustomerService) Update(id string, in CustomerInput) (domain.Customer, error) {
	in, err := s.validate(in)
	if err != nil {
		return domain.Customer{}, err
	}
	existing, err := s.customers.ByEmail(in.Email)
	if err == nil && existing.ID != id {
		return domain.Customer{}, domain.Validationf("a customer with email %s already exists", in.Email)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.Storage("check customer email", err)
	}
	c := domain.Customer{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
	}
	ok, err := s.customers.Update(&c)
	if err != nil {
		return domain.Customer{}, domain.Storage("update customer", err)
	}
	if !ok {
		return domain.Customer{}, domain.NotFoundf("customer %s not found", id)
	}
	return s.Get(id)
}

func (s *CustomerService) Deactivate(id string) error {
	ok, err := s.customers.Deactivate(id)
	if err != nil {
		return domain.Storage("deactivate customer", err)
	}
	if !ok {
		return domain.NotFoundf("customer %s not found", id)
	}
	return nil
}

// Stats summarizes a customer's order history, excluding cancellations.
func (s *CustomerService) Stats(id string) (repos.CustomerStats, error) {
	if _, err := s.Get(id); err != nil {
		return repos.CustomerStats{}, err
	}
	stats, err := s.customers.Stats(id)
	if err != nil {
		return repos.CustomerStats{}, domain.Storage("customer stats", err)
	}
	return stats, nil
}
