package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Las abilities y la expiración quedan fijadas al emitir el token según el rol y
// el tipo de usuario; el middleware nunca las re-deriva por request.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string   `json:"user_id"`
	CompanyID string   `json:"company_id"` // vacío para super_admin
	Role      string   `json:"role"`       // "super_admin" | "admin" | "emisor" | "consultor"
	UserType  string   `json:"user_type"`  // "system" | "user" | "api_client"
	Abilities []string `json:"abilities"`
}

// TokenInput datos de la aplicación que viajan dentro del token.
type TokenInput struct {
	UserID    string
	CompanyID string
	Role      string
	UserType  string
	Abilities []string
}

// Generate genera un token JWT firmado (HS256) con los claims de la aplicación y el TTL indicado.
func Generate(secret, issuer string, in TokenInput, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   in.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		Role:      in.Role,
		UserType:  in.UserType,
		Abilities: in.Abilities,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse valida el token y devuelve los claims de la aplicación.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
