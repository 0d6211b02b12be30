package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gestion/internal/apierror"
	"gestion/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	ClaimsKey = "claims"
	// CookieToken carries the session token for browser clients.
	CookieToken = "gestion-token"
)

// JWTClaims are the custom claims embedded in every access token. The token id
// travels in RegisteredClaims.ID ("jti") and is what logout revokes.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// Revocados answers whether a token id was logged out.
type Revocados interface {
	EstaRevocado(ctx context.Context, jti string) (bool, error)
}

// Cuentas looks up the stored account behind a token.
type Cuentas interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
}

// JWTAuth rejects requests without a valid, non-revoked token whose account
// still exists. The role seen by the handlers is the stored one, not the one
// signed into the token.
func JWTAuth(secret string, revocados Revocados, cuentas Cuentas) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extraerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}
		claims, ok := parsearToken(tokenStr, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		if revocados != nil && claims.ID != "" {
			revocado, err := revocados.EstaRevocado(c.Request.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("auth: revocation lookup failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierror.New("Servicio no disponible"))
				return
			}
			if revocado {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
				return
			}
		}
		vigente, err := cuentaVigente(c.Request.Context(), cuentas, claims)
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("auth: account lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierror.New("Servicio no disponible"))
			return
		}
		if !vigente {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// JWTOpcional attaches claims when a valid token is present and lets anonymous
// requests through otherwise. Deleted accounts are anonymous.
func JWTOpcional(secret string, revocados Revocados, cuentas Cuentas) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := extraerToken(c); tokenStr != "" {
			if claims, ok := parsearToken(tokenStr, secret); ok {
				revocado := false
				if revocados != nil && claims.ID != "" {
					var err error
					if revocado, err = revocados.EstaRevocado(c.Request.Context(), claims.ID); err != nil {
						log.Warn().Err(err).Msg("auth: revocation lookup failed, treating as anonymous")
						revocado = true
					}
				}
				if !revocado {
					vigente, err := cuentaVigente(c.Request.Context(), cuentas, claims)
					if err != nil {
						log.Warn().Err(err).Msg("auth: account lookup failed, treating as anonymous")
					}
					if vigente {
						c.Set(ClaimsKey, claims)
					}
				}
			}
		}
		c.Next()
	}
}

// RequireAdmin rejects callers whose role is not admin. Must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Identidad(c).EsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Acceso denegado"))
			return
		}
		c.Next()
	}
}

// GetClaims returns the typed claims or nil on anonymous requests.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// Identidad converts the token claims into the caller identity used by the
// services. Returns nil for anonymous requests or malformed ids.
func Identidad(c *gin.Context) *model.Identidad {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &model.Identidad{UsuarioID: id, Email: claims.Email, Rol: model.Rol(claims.Rol)}
}

// cuentaVigente overwrites the role and email in claims with the stored ones.
// It returns false when the account no longer exists. A nil Cuentas keeps the
// token claims as they are.
func cuentaVigente(ctx context.Context, cuentas Cuentas, claims *JWTClaims) (bool, error) {
	if cuentas == nil {
		return true, nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return false, nil
	}
	u, err := cuentas.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	claims.Rol = string(u.Rol)
	claims.Email = u.Email
	return true, nil
}

func extraerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(CookieToken); err == nil {
		return cookie
	}
	return ""
}

func parsearToken(tokenStr, secret string) (*JWTClaims, bool) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return claims, true
}
