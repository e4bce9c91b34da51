package auth

import (
	"errors"
	"strconv"
	"time"

	"ecr/config"
	"ecr/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID uint        `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Issuer signs and parses access and refresh tokens with the secrets it was
// constructed with.
type Issuer struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

func (i *Issuer) GenerateAccessToken(userID uint, role domain.Role) (string, error) {
	return i.sign(userID, role, i.cfg.AccessExpiry, i.cfg.AccessSecret)
}

func (i *Issuer) GenerateRefreshToken(userID uint, role domain.Role) (string, error) {
	return i.sign(userID, role, i.cfg.RefreshExpiry, i.cfg.RefreshSecret)
}

func (i *Issuer) ParseAccessToken(tokenString string) (*Claims, error) {
	return i.parse(tokenString, i.cfg.AccessSecret)
}

func (i *Issuer) ParseRefreshToken(tokenString string) (*Claims, error) {
	return i.parse(tokenString, i.cfg.RefreshSecret)
}

func (i *Issuer) sign(userID uint, role domain.Role, ttl time.Duration, secret string) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (i *Issuer) parse(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
