package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/validate"
)

var ErrBadCreds = errors.New("invalid email or password")

const tokenTTL = 7 * 24 * time.Hour

// AuthService manages staff accounts and issues the bearer tokens the
// admin endpoints check.
type AuthService struct {
	users  *repos.UserRepo
	secret []byte
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{users: users, secret: []byte(secret)}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *AuthService) Register(req RegisterRequest) (*domain.User, error) {
	email, ok := validate.Email(req.Email)
	if !ok {
		return nil, domain.Validationf("a valid email is required")
	}
	if _, ok := validate.Name(req.FullName); !ok {
		return nil, domain.Validationf("full name is required and must be at most 60 characters")
	}
	if !validate.Password(req.Password) {
		return nil, domain.Validationf("password must be 8-64 characters with upper, lower and digit")
	}
	role := req.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if role != domain.RoleStaff && role != domain.RoleAdmin {
		return nil, domain.Validationf("invalid role %q", role)
	}
	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, domain.Storage("check user email", err)
	}
	if exists {
		return nil, domain.Validationf("a user with email %s already exists", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, domain.Storage("hash password", err)
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: req.FullName,
		Hash:     string(hash),
		Role:     role,
	}
	if err := s.users.Create(&u); err != nil {
		return nil, domain.Storage("create user", err)
	}
	return &u, nil
}

// Login verifies credentials and returns a signed token plus the user.
// Inactive accounts fail the same way bad credentials do.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.users.ByEmail(email)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if !u.IsActive {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	token, err := s.issue(&u)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

func (s *AuthService) issue(u *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.Storage("sign token", err)
	}
	return signed, nil
}

// Verify parses a bearer token and loads its user. Tokens for deleted
// or deactivated accounts are rejected even before expiry.
func (s *AuthService) Verify(token string) (*domain.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrBadCreds
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrBadCreds
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrBadCreds
	}
	u, err := s.users.ByID(sub)
	if err != nil || !u.IsActive {
		return nil, ErrBadCreds
	}
	return &u, nil
}

func (s *AuthService) Profile(userID string) (*domain.User, error) {
	u, err := s.users.ByID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("user %s not found", userID)
	}
	if err != nil {
		return nil, domain.Storage("load user", err)
	}
	return &u, nil
}

func (s *AuthService) UpdateProfile(userID, fullName string) (*domain.User, error) {
	if _, ok := validate.Name(fullName); !ok {
		return nil, domain.Validationf("full name is required and must be at most 60 characters")
	}
	ok, err := s.users.UpdateProfile(userID, fullName)
	if err != nil {
		return nil, domain.Storage("update profile", err)
	}
	if !ok {
		return nil, domain.NotFoundf("user %s not found", userID)
	}
	return s.Profile(userID)
}

func (s *AuthService) ChangePassword(userID, current, next string) error {
	u, err := s.users.ByID(userID)
	if err != nil {
		return domain.NotFoundf("user %s not found", userID)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(current)) != nil {
		return ErrBadCreds
	}
	if !validate.Password(next) {
		return domain.Validationf("password must be 8-64 characters with upper, lower and digit")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), 12)
	if err != nil {
		return domain.Storage("hash password", err)
	}
	if _, err := s.users.UpdatePassword(userID, string(hash)); err != nil {
		return domain.Storage("update password", err)
	}
	return nil
}
