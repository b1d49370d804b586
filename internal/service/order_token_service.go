package service

import (
	"errors"
	"strings"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// OrderTokenService issues and verifies the signed guest credential that
// scopes order-status access to the orders created by one checkout.
// Tokens are stateless; nothing is stored server-side.
type OrderTokenService struct {
	secret      []byte
	expireHours int
}

// NewOrderTokenService creates the order token service.
func NewOrderTokenService(cfg config.TokenConfig) *OrderTokenService {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = 72
	}
	return &OrderTokenService{
		secret:      []byte(cfg.Secret),
		expireHours: hours,
	}
}

// OrderTokenClaims binds a set of order IDs to the checkout email.
type OrderTokenClaims struct {
	OrderIDs []int64 `json:"order_ids"`
	Email    string  `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a token covering the given orders. Expiry is enforced at
// verification.
func (s *OrderTokenService) Issue(orderIDs []int64, email string) (string, time.Time, error) {
	if len(orderIDs) == 0 {
		return "", time.Time{}, ErrTokenInvalid
	}
	expiresAt := time.Now().Add(time.Duration(s.expireHours) * time.Hour)

	claims := OrderTokenClaims{
		OrderIDs: orderIDs,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token, returning its claims.
func (s *OrderTokenService) Verify(tokenString string) (*OrderTokenClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &OrderTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*OrderTokenClaims)
	if !ok || !token.Valid || len(claims.OrderIDs) == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authorize verifies the token and checks it covers the requested order.
func (s *OrderTokenService) Authorize(tokenString string, orderID int64) (*OrderTokenClaims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	for _, id := range claims.OrderIDs {
		if id == orderID {
			return claims, nil
		}
	}
	return nil, ErrTokenForbidden
}
