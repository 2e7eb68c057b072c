package handler

import (
	"fmt"
	"net/http"
	"strings"

	"worththehype/trust-service/internal/app/trust/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	contextUserID      = "user_id"
	contextCurrentUser = "current_user"
	roleAdmin          = "admin"
)

// JWTClaims claims токена провайдера идентификации
type JWTClaims struct {
	UserID         string           `json:"user_id"`
	DisplayName    string           `json:"display_name"`
	AccountCreated *jwt.NumericDate `json:"account_created,omitempty"`
	Role           string           `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен. Учетные данные не проверяются,
// только подпись и срок действия.
type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate проверяет токен и кладет entity.CurrentUser в контекст Gin
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		// Проверяем формат "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		user := &entity.CurrentUser{
			ID:          claims.UserID,
			DisplayName: claims.DisplayName,
			Role:        claims.Role,
		}
		if claims.AccountCreated != nil {
			created := claims.AccountCreated.Time
			user.AccountCreated = &created
		}

		c.Set(contextUserID, user.ID)
		c.Set(contextCurrentUser, user)

		c.Next()
	}
}

// RequireRole пропускает только пользователей с ролью role.
// Ставится после Authenticate.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*entity.CurrentUser, bool) {
	v, exists := c.Get(contextCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entity.CurrentUser)
	return user, ok
}
