package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/acoe/bonafide/internal/app/models"
	appRepos "github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/config"
	"github.com/acoe/bonafide/internal/pkg/auth"
)

const generatedPasswordLength = 16

// CreateDefaultData provisions the initial admin and principal accounts
// when they do not exist yet. Passwords come from configuration; when
// unset, a random one is generated and printed once to the log.
func CreateDefaultData(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	profileRepo := appRepos.NewProfileRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default accounts...")

	var finalErr error
	if err := ensureAccount(ctx, profileRepo, dbPool, lgr, accountSpec{
		Username:  cfg.Seed.AdminUsername,
		Password:  cfg.Seed.AdminPassword,
		Role:      appModels.RoleAdmin,
		FirstName: "Administrator",
	}); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if err := ensureAccount(ctx, profileRepo, dbPool, lgr, accountSpec{
		Username:  cfg.Seed.PrincipalUsername,
		Password:  cfg.Seed.PrincipalPassword,
		Role:      appModels.RolePrincipal,
		FirstName: "Principal",
	}); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

type accountSpec struct {
	Username  string
	Password  string
	Role      appModels.RoleType
	FirstName string
}

func ensureAccount(ctx context.Context, profileRepo *appRepos.ProfileRepository, dbPool *pgxpool.Pool, lgr zerolog.Logger, spec accountSpec) error {
	if spec.Username == "" {
		return nil
	}

	exists, err := profileRepo.UsernameExists(ctx, spec.Username)
	if err != nil {
		lgr.Error().Err(err).Str("username", spec.Username).Msg("Error checking default account")
		return err
	}
	if exists {
		return nil
	}

	password := spec.Password
	generated := false
	if password == "" {
		password, err = auth.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return fmt.Errorf("failed to generate password for %s: %w", spec.Username, err)
		}
		generated = true
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", spec.Username, err)
	}

	profile := &appModels.Profile{
		FirstName: spec.FirstName,
		Username:  spec.Username,
		Email:     spec.Username + "@localhost",
		Password:  hash,
		Role:      spec.Role,
		IsActive:  true,
	}

	if err := profileRepo.Create(ctx, dbPool, profile); err != nil {
		lgr.Error().Err(err).Str("username", spec.Username).Msg("Error creating default account")
		return err
	}

	event := lgr.Info().Str("username", spec.Username).Str("role", string(spec.Role))
	if generated {
		// Shown once; there is no other way to recover it.
		event = event.Str("password", password)
	}
	event.Msg("Default account created")
	return nil
}
