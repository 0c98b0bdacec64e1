package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/raywall/operadoras-api/pkg/database"
	"github.com/raywall/operadoras-api/pkg/secrets"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "toolkit",
		Short:         "Ferramentas operacionais da API de operadoras",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("file", "f", os.Getenv("CONFIG_FILE_PATH"), "Caminho do arquivo YAML de configuração")

	rootCmd.AddCommand(newValidateCmd(), newPingCmd())
	return rootCmd
}

// configSummary é a visão da configuração exibida pelo validate, sem segredos.
type configSummary struct {
	Service        string   `json:"service"`
	Runtime        string   `json:"runtime"`
	Port           int      `json:"port"`
	Database       string   `json:"database"`
	PasswordSource string   `json:"password_source"`
	Cache          bool     `json:"cache"`
	Datadog        bool     `json:"datadog"`
	AllowedOrigins []string `json:"allowed_origins"`
}

func summarize(cfg *config.AppConfig) configSummary {
	source := "env"
	switch {
	case cfg.Database.PasswordSecretID != "":
		source = "secretsmanager"
	case cfg.Database.PasswordParameter != "":
		source = "ssm"
	}

	return configSummary{
		Service:        cfg.Service.Name,
		Runtime:        cfg.Service.Runtime,
		Port:           cfg.Service.Port,
		Database:       fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name),
		PasswordSource: source,
		Cache:          cfg.Cache.Enabled(),
		Datadog:        cfg.Metrics.Datadog.Enabled,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Valida o arquivo de configuração e as variáveis de ambiente",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			output, _ := cmd.Flags().GetString("output")
			out := cmd.OutOrStdout()

			cfg, err := config.Load(path, expandPlaceholders(cmd.Context()))
			if err != nil {
				return fmt.Errorf("❌ configuração inválida:\n%w", err)
			}

			// Output JSON para integração com pipelines
			if output == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summarize(cfg))
			}

			s := summarize(cfg)
			fmt.Fprintf(out, "✅ Configuração válida: %s (%s)\n", s.Service, s.Runtime)
			fmt.Fprintf(out, "   banco: %s (senha via %s)\n", s.Database, s.PasswordSource)
			fmt.Fprintf(out, "   cache redis: %t | datadog: %t\n", s.Cache, s.Datadog)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Formato de saída: text ou json")
	return cmd
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Verifica a conexão com o PostgreSQL usando a configuração atual",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			ctx := cmd.Context()

			cfg, err := config.Load(path, expandPlaceholders(ctx))
			if err != nil {
				return err
			}
			if err := secrets.ApplyDatabaseCredentials(ctx, &cfg.Database); err != nil {
				return err
			}

			db, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Ping(ctx, db, cfg.Database); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Banco acessível em %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
			return nil
		},
	}
}

func expandPlaceholders(ctx context.Context) config.Hook {
	return func(cfg *config.AppConfig) error {
		return secrets.NewInterpolator(cfg.Database.AWSRegion, nil, nil).Expand(ctx, cfg)
	}
}
