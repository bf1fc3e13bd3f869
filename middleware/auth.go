package middleware

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/gowash/carwash-api/models"
	"github.com/gowash/carwash-api/redis"
	"github.com/gowash/carwash-api/utils"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // dev fallback, never rely on it in production
	}
	return []byte(secret)
}

// Protected authenticates the x-auth-token header and puts (userID, userType)
// into locals. Tokens revoked at logout are rejected until they expire.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtSecret(),
		TokenLookup:  "header:x-auth-token",
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Invalid token"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Invalid token claims"))
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Invalid user ID in token"))
			}

			userType, err := extractUserType(claims)
			if err != nil {
				return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Invalid account type in token"))
			}

			if redis.Client != nil {
				revoked, err := redis.Client.Exists(redis.Ctx, revocationKey(token.Raw)).Result()
				if err == nil && revoked > 0 {
					return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Token has been revoked"))
				}
			}

			c.Locals("userID", userID)
			c.Locals("userType", userType)

			return c.Next()
		},
	})
}

// RequireRole gates a route to one account type. Must run after Protected.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userType, ok := c.Locals("userType").(models.UserRole)
		if !ok {
			return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Account type not found in context"))
		}
		if userType != role {
			return utils.JSONError(c, utils.NewError(utils.CodeRoleViolation,
				fmt.Sprintf("Only %ss can perform this action", role)))
		}
		return c.Next()
	}
}

func revocationKey(rawToken string) string {
	return "revoked:" + rawToken
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

// extractUserType reads the account type claim ("customer" or "provider")
func extractUserType(claims jwt.MapClaims) (models.UserRole, error) {
	typeVal, ok := claims["type"].(string)
	if !ok {
		return "", fmt.Errorf("no account type found in claims")
	}

	role := models.UserRole(typeVal)
	if role != models.RoleCustomer && role != models.RoleProvider {
		return "", fmt.Errorf("unknown account type %q", typeVal)
	}
	return role, nil
}

// jwtError handles missing, malformed and expired tokens
func jwtError(c *fiber.Ctx, err error) error {
	return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Invalid or expired token"))
}
