package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/gui"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultListeningAddr = "0.0.0.0"
	DefaultPort          = 8080
)

// Setup loads the configuration at path. Without a config file, cli mode
// runs the setup wizard and saves its result, while docker mode has to be
// configured entirely through DEX_* environment variables.
func Setup(ctx context.Context, mode, path string) *models.Config {
	logger := log.FromContext(ctx).WithField("path", path)

	cfg, err := readConfig(path)
	if err != nil {
		logger.WithError(err).Fatal("failed to read config")
	}

	if cfg == nil {
		cfg = &models.Config{}

		if mode == "docker" {
			logger.Warn("no config file found, using environment variables only")
		} else {
			app := gui.New(cfg)
			if err = app.Start(); err != nil {
				logger.WithError(err).Fatal("Failed to start interactive wizard")
			}

			SetConfig(ctx, path, cfg)
		}
	}

	if err = Finalize(cfg); err != nil {
		if mode == "docker" {
			logger.WithError(err).Fatal("invalid configuration. In docker mode either volume mount a config.json or set the DEX_* environment variables, check the wiki for more information")
		}
		logger.WithError(err).Fatal("invalid configuration")
	}

	return cfg
}

// Finalize fills in defaults, applies environment overrides and validates
// the result.
func Finalize(cfg *models.Config) error {
	ApplyDefaults(cfg)

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}

	return ValidateConfig(cfg)
}

func ApplyDefaults(cfg *models.Config) {
	if cfg.HTTP.ListeningAddr == "" {
		cfg.HTTP.ListeningAddr = DefaultListeningAddr
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = DefaultPort
	}
	if cfg.Catalog.MaxPageSize == 0 {
		cfg.Catalog.MaxPageSize = catalog.MaxPageSize
	}
	if cfg.Catalog.DefaultPageSize == 0 {
		cfg.Catalog.DefaultPageSize = min(catalog.DefaultPageSize, cfg.Catalog.MaxPageSize)
	}
	if cfg.Catalog.MaxChainLength == 0 {
		cfg.Catalog.MaxChainLength = catalog.DefaultMaxChainLength
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateConfig reports every invalid field, named as in config.json.
func ValidateConfig(cfg *models.Config) error {
	err := validate.Struct(cfg)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(problems, "; "))
}

func SetConfig(ctx context.Context, path string, cfg *models.Config) {
	logger := log.FromContext(ctx)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		logger.WithError(err).Errorf("Error opening %s", path)
		return
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	err = enc.Encode(cfg)
	if err != nil {
		logger.WithError(err).Errorf("Error encoding %s", path)
	}
}

// readConfig returns nil without error when there is no file at path.
func readConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err = json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &config, nil
}
