package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *AppConfig) error {
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errMsgs := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *AppConfig) error {
	// Servidor HTTP precisa de porta; em Lambda a porta é ignorada
	if cfg.Service.Runtime != "lambda" && cfg.Service.Port == 0 {
		return fmt.Errorf("porta obrigatória para o runtime '%s'", cfg.Service.Runtime)
	}

	if cfg.Database.PasswordSecretID != "" && cfg.Database.PasswordParameter != "" {
		return fmt.Errorf("informe apenas uma origem para a senha do banco: secrets manager ou ssm")
	}

	for _, origin := range cfg.CORS.AllowedOrigins {
		if origin == "*" && len(cfg.CORS.AllowedOrigins) > 1 {
			return fmt.Errorf("origem '*' não pode ser combinada com outras origens de CORS")
		}
	}

	if cfg.Database.MaxIdleConns > cfg.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) maior que DB_MAX_OPEN_CONNS (%d)",
			cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	}

	return nil
}
