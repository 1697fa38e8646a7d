package middleware

import (
	"biz-tools-backend/config"
	authutils "biz-tools-backend/lib/utils/auth-utils"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
	})
}

func GetUserID(ctx *fiber.Ctx) string {
	return getStringClaim(ctx, "sub")
}

func GetUserName(ctx *fiber.Ctx) string {
	return getStringClaim(ctx, "name")
}

func GetUserRole(ctx *fiber.Ctx) string {
	return getStringClaim(ctx, "role")
}

func getStringClaim(ctx *fiber.Ctx, key string) string {
	claims := authutils.GetClaims(ctx)
	value, ok := claims[key].(string)
	if !ok {
		return ""
	}
	return value
}
