package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"welly-web/internal/db"
	"welly-web/internal/shared/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 12 * time.Hour

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

// Login checks the password, then the is_admin flag, and returns a session
// token for the admin.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Admin, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return Admin{}, "", ErrMissingCredentials
	}

	row := s.db.QueryRow(ctx, `
		SELECT a.id, a.email, a.password_hash, COALESCE(p.display_name, ''), COALESCE(p.is_admin, false)
		FROM auth_users a
		LEFT JOIN profiles p ON p.id = a.id
		WHERE lower(a.email) = $1
	`, email)

	var (
		admin   Admin
		hash    string
		isAdmin bool
	)
	if err := row.Scan(&admin.ID, &admin.Email, &hash, &admin.DisplayName, &isAdmin); err != nil {
		if errors.Is(db.NotFound(err), apperr.ErrNotFound) {
			return Admin{}, "", ErrInvalidCredentials
		}
		return Admin{}, "", apperr.Backend("load admin", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return Admin{}, "", ErrInvalidCredentials
	}
	if !isAdmin {
		return Admin{}, "", ErrNotAdmin
	}

	token, err := s.signToken(admin.ID, sessionTTL)
	if err != nil {
		return Admin{}, "", err
	}
	return admin, token, nil
}

// IsAdmin re-reads the flag so a revoked admin loses access before the
// session expires.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRow(ctx, `SELECT is_admin FROM profiles WHERE id = $1`, userID).Scan(&isAdmin)
	if err != nil {
		if errors.Is(db.NotFound(err), apperr.ErrNotFound) {
			return false, nil
		}
		return false, apperr.Backend("load admin flag", err)
	}
	return isAdmin, nil
}

func (s *Service) ValidateToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
