package public

import (
	"strings"

	handlershared "github.com/Innovatio-dev/tof-checkout/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// authenticatedEmail extracts the verified session email from an
// optional bearer token. Missing or invalid tokens mean a guest
// checkout, never an error.
func (h *Handler) authenticatedEmail(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.Config.Token.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return strings.ToLower(strings.TrimSpace(email))
	}
	if sub, ok := claims["sub"].(string); ok && strings.Contains(sub, "@") {
		return strings.ToLower(strings.TrimSpace(sub))
	}
	return ""
}
