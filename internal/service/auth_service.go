package service

import (
	"context"
	"strings"
	"time"

	"gestion/internal/config"
	"gestion/internal/dto"
	"gestion/internal/model"
	"gestion/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// RevocacionTokens keeps revoked token ids until the token would have expired.
type RevocacionTokens interface {
	Revocar(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expira time.Time) error
	// Yo resolves the caller; anonymous callers get a null user, not an error.
	Yo(ctx context.Context, id *model.Identidad) (*dto.YoResponse, error)
}

type authService struct {
	repo       repository.UsuarioRepository
	autz       AutorizacionService
	revocacion RevocacionTokens
	cfg        *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, autz AutorizacionService, revocacion RevocacionTokens, cfg *config.Config) AuthService {
	return &authService{repo: repo, autz: autz, revocacion: revocacion, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizarEmail(req.Email))
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, traducir(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	exp := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	token, err := s.generateToken(user, exp)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User:  usuarioToResponse(user),
		Token: token,
		Exp:   exp.Unix(),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expira time.Time) error {
	if jti == "" || s.revocacion == nil {
		return nil
	}
	ttl := time.Until(expira)
	if ttl <= 0 {
		return nil
	}
	return s.revocacion.Revocar(ctx, jti, ttl)
}

func (s *authService) Yo(ctx context.Context, id *model.Identidad) (*dto.YoResponse, error) {
	if id == nil {
		return &dto.YoResponse{}, nil
	}
	user, err := s.repo.FindByID(ctx, id.UsuarioID)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return &dto.YoResponse{}, nil
		}
		return nil, traducir(err)
	}
	resp := usuarioToResponse(user)
	// Role comes from the stored user, not the token, so demotions apply at once.
	actual := &model.Identidad{UsuarioID: user.ID, Email: user.Email, Rol: user.Rol}
	return &dto.YoResponse{
		User:     &resp,
		Permisos: permisosEfectivosToResponse(s.autz.Efectivos(ctx, actual)),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"rol":     string(user.Rol),
		"jti":     uuid.NewString(),
		"exp":     exp.Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
