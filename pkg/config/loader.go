package config

import (
	"fmt"
	"os"

	"github.com/raywall/operadoras-api/envloader"
	"gopkg.in/yaml.v3"
)

// Hook ajusta a configuração já carregada, antes da validação.
type Hook func(cfg *AppConfig) error

// Load monta a configuração do serviço. Quando path não é vazio, o arquivo
// YAML é lido primeiro; em seguida as variáveis de ambiente sobrescrevem os
// valores e os defaults preenchem o que faltar. Os hooks rodam na ordem
// informada e só então o resultado é validado.
func Load(path string, hooks ...Hook) (*AppConfig, error) {
	cfg := &AppConfig{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("falha leitura config (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("falha ao parsear YAML (%s): %w", path, err)
		}
	}

	if err := envloader.Load(cfg); err != nil {
		return nil, err
	}

	for _, hook := range hooks {
		if err := hook(cfg); err != nil {
			return nil, err
		}
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
