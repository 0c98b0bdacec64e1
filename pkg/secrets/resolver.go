package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	appconfig "github.com/raywall/operadoras-api/pkg/config"
	"github.com/rs/zerolog/log"
)

// ErrEmptySecret indica que o segredo existe mas não contém senha.
var ErrEmptySecret = errors.New("segredo sem valor de senha")

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Credentials são as credenciais resolvidas para o PostgreSQL.
// User vem vazio quando a origem não informa usuário.
type Credentials struct {
	User     string
	Password string
}

// Resolver busca credenciais do banco no Secrets Manager ou no SSM.
type Resolver struct {
	ssm     SSMClient
	secrets SecretsClient
}

// NewResolver cria um Resolver com os clientes informados.
func NewResolver(ssmClient SSMClient, secretsClient SecretsClient) *Resolver {
	return &Resolver{ssm: ssmClient, secrets: secretsClient}
}

// Resolve retorna as credenciais conforme a origem configurada. Sem origem
// externa, a senha de cfg é devolvida sem nenhuma chamada à AWS.
func (r *Resolver) Resolve(ctx context.Context, cfg appconfig.DatabaseConf) (Credentials, error) {
	switch {
	case cfg.PasswordSecretID != "":
		return r.fromSecretsManager(ctx, cfg.PasswordSecretID)
	case cfg.PasswordParameter != "":
		return r.fromParameterStore(ctx, cfg.PasswordParameter)
	default:
		return Credentials{Password: cfg.Password}, nil
	}
}

// fromSecretsManager aceita segredo em texto puro ou JSON no formato do RDS
// ({"username": "...", "password": "..."}).
func (r *Resolver) fromSecretsManager(ctx context.Context, secretID string) (Credentials, error) {
	out, err := r.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("erro no SecretsManager: %w", err)
	}

	val := aws.ToString(out.SecretString)
	if val == "" {
		return Credentials{}, ErrEmptySecret
	}

	var data struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal([]byte(val), &data); err == nil {
		if data.Password == "" {
			return Credentials{}, ErrEmptySecret
		}
		return Credentials{User: data.Username, Password: data.Password}, nil
	}

	return Credentials{Password: val}, nil
}

func (r *Resolver) fromParameterStore(ctx context.Context, name string) (Credentials, error) {
	out, err := r.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("erro no SSM GetParameter: %w", err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return Credentials{}, ErrEmptySecret
	}
	return Credentials{Password: aws.ToString(out.Parameter.Value)}, nil
}

// ApplyDatabaseCredentials resolve as credenciais com clientes reais da AWS e
// grava o resultado em cfg. Não faz nada se nenhuma origem externa foi configurada.
func ApplyDatabaseCredentials(ctx context.Context, cfg *appconfig.DatabaseConf) error {
	if cfg.PasswordSecretID == "" && cfg.PasswordParameter == "" {
		return nil
	}

	awsConfig, err := GetAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return fmt.Errorf("falha ao carregar config AWS: %w", err)
	}

	resolver := NewResolver(ssm.NewFromConfig(awsConfig), secretsmanager.NewFromConfig(awsConfig))
	return applyCredentials(ctx, resolver, cfg)
}

func applyCredentials(ctx context.Context, resolver *Resolver, cfg *appconfig.DatabaseConf) error {
	creds, err := resolver.Resolve(ctx, *cfg)
	if err != nil {
		return err
	}

	cfg.Password = creds.Password
	if creds.User != "" {
		cfg.User = creds.User
	}

	log.Ctx(ctx).Info().
		Str("db_user", cfg.User).
		Bool("from_secrets_manager", cfg.PasswordSecretID != "").
		Msg("credenciais do banco resolvidas")
	return nil
}
