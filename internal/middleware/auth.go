package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/llm-benchmarks-backend/pkg/response"
)

// AdminIssuer is the issuer claim of admin tokens
const AdminIssuer = "llm-benchmarks"

// adminSubjectKey stores the token subject on the gin context
const adminSubjectKey = "admin_subject"

// MintAdminToken signs an HS256 admin token for subject valid for ttl
func MintAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret must not be empty")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    AdminIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAdminToken verifies a token minted by MintAdminToken and returns its subject
func ParseAdminToken(secret, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(AdminIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("invalid admin token: %w", err)
	}
	return claims.Subject, nil
}

// AdminAuth requires a valid bearer token on mutating routes. An empty
// secret leaves the routes open.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		subject, err := ParseAdminToken(secret, token)
		if err != nil {
			_ = c.Error(err)
			response.Unauthorized(c, "Invalid bearer token")
			return
		}

		c.Set(adminSubjectKey, subject)
		c.Next()
	}
}

// AdminSubject returns the authenticated admin subject, if any
func AdminSubject(c *gin.Context) string {
	return c.GetString(adminSubjectKey)
}
