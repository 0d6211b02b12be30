// cmd/seeduser: crea o actualiza el usuario administrador inicial.
// Uso: ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"gestion/internal/config"
	"gestion/internal/infra"
	"gestion/internal/model"
	"gestion/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	infra.ConfigurarLogger(cfg.Env, cfg.LogLevel)

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || len(cfg.AdminPassword) < 8 {
		log.Error().Msg("ADMIN_EMAIL y ADMIN_PASSWORD (min 8 caracteres) son obligatorios")
		os.Exit(2)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := infra.Migrar(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewUsuarioRepository(db)
	u, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		u.PasswordHash = string(hash)
		u.Rol = model.RolAdmin
		err = repo.Update(ctx, u)
	case repository.EsNoEncontrado(err):
		err = repo.Create(ctx, &model.Usuario{
			Email:        email,
			Nombre:       "Administrador",
			PasswordHash: string(hash),
			Rol:          model.RolAdmin,
		})
	}
	if err != nil {
		log.Fatal().Err(err).Str("email", email).Msg("upsert admin")
	}
	log.Info().Str("email", email).Msg("usuario admin creado/actualizado")
}
