// Package jwt genera y valida pares de tokens HS256. El access y el refresh
// token de un par comparten el mismo jti; la revocación en el almacén de
// tokens aplica a ambos por clave (sujeto, jti).
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token dentro del par.
const (
	TipoAccess  = "access"
	TipoRefresh = "refresh"
)

// Config parámetros de firma y vigencia.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims claims estándar más los propios de la aplicación. Roles viaja en el
// token para que los chequeos de jerarquía no consulten la DB por petición.
type Claims struct {
	jwt.RegisteredClaims
	Tipo         string   `json:"tipo"`
	Roles        []string `json:"roles,omitempty"`
	PersonaID    string   `json:"persona_id,omitempty"`
	FabricanteID string   `json:"fabricante_id,omitempty"`
}

// Pair par de tokens emitidos juntos, verificables de forma independiente.
type Pair struct {
	AccessToken  string
	RefreshToken string
	TokenID      string
	ExpiresIn    int64 // segundos de vigencia del access token
}

// GeneratePair emite un par access/refresh para el sujeto con un jti nuevo.
func GeneratePair(cfg Config, usuarioID string, roles []string, extra map[string]string) (*Pair, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	tokenID := uuid.New().String()

	access, err := sign(cfg, usuarioID, tokenID, TipoAccess, cfg.AccessTTL, roles, extra)
	if err != nil {
		return nil, err
	}
	refresh, err := sign(cfg, usuarioID, tokenID, TipoRefresh, cfg.RefreshTTL, roles, extra)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenID:      tokenID,
		ExpiresIn:    int64(cfg.AccessTTL.Seconds()),
	}, nil
}

func sign(cfg Config, usuarioID, tokenID, tipo string, ttl time.Duration, roles []string, extra map[string]string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   usuarioID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Tipo:         tipo,
		Roles:        roles,
		PersonaID:    extra["persona_id"],
		FabricanteID: extra["fabricante_id"],
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// Parse valida firma y expiración y devuelve los claims.
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
