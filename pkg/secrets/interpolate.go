package secrets

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.DB_HOST}, ${ssm./operadoras/db/host}, ${secret.prod/operadoras/redis}
var placeholder = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Interpolator substitui placeholders em campos string (e []string) de uma
// struct de configuração. Clientes AWS são criados sob demanda, só quando
// algum placeholder ssm/secret aparece.
type Interpolator struct {
	region  string
	ssm     SSMClient
	secrets SecretsClient
}

// NewInterpolator cria um Interpolator. Clientes nil são criados com a
// configuração padrão da AWS para region na primeira necessidade.
func NewInterpolator(region string, ssmClient SSMClient, secretsClient SecretsClient) *Interpolator {
	return &Interpolator{region: region, ssm: ssmClient, secrets: secretsClient}
}

// Expand percorre target (ponteiro para struct) substituindo os placeholders.
func (i *Interpolator) Expand(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.expandValue(ctx, v.Elem())
}

func (i *Interpolator) expandValue(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			field := v.Field(k)
			if !field.CanSet() {
				continue
			}
			if err := i.expandValue(ctx, field); err != nil {
				return fmt.Errorf("%s: %w", v.Type().Field(k).Name, err)
			}
		}

	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		expanded, err := i.expandString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(expanded)

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.expandValue(ctx, v.Index(j)); err != nil {
				return err
			}
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.expandValue(ctx, v.Elem())
		}
	}
	return nil
}

func (i *Interpolator) expandString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var firstErr error
	result := placeholder.ReplaceAllStringFunc(input, func(match string) string {
		parts := placeholder.FindStringSubmatch(match)
		val, err := i.fetch(ctx, parts[1], parts[2])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return val
	})

	return result, firstErr
}

// fetch centraliza a busca de dados. Variável de ambiente ausente vira string vazia.
func (i *Interpolator) fetch(ctx context.Context, source, key string) (string, error) {
	switch source {
	case "env":
		return os.Getenv(key), nil

	case "ssm":
		if err := i.ensureClients(ctx); err != nil {
			return "", err
		}
		out, err := i.ssm.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(key),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return "", fmt.Errorf("falha ao buscar parâmetro SSM %s: %w", key, err)
		}
		if out.Parameter == nil {
			return "", fmt.Errorf("parâmetro SSM %s sem valor", key)
		}
		return aws.ToString(out.Parameter.Value), nil

	case "secret":
		if err := i.ensureClients(ctx); err != nil {
			return "", err
		}
		out, err := i.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(key)})
		if err != nil {
			return "", fmt.Errorf("falha ao buscar segredo %s: %w", key, err)
		}
		return aws.ToString(out.SecretString), nil
	}

	return "", fmt.Errorf("origem de placeholder desconhecida: %s", source)
}

func (i *Interpolator) ensureClients(ctx context.Context) error {
	if i.ssm != nil && i.secrets != nil {
		return nil
	}

	awsConfig, err := GetAWSConfig(ctx, i.region)
	if err != nil {
		return fmt.Errorf("falha ao carregar config AWS: %w", err)
	}
	if i.ssm == nil {
		i.ssm = ssm.NewFromConfig(awsConfig)
	}
	if i.secrets == nil {
		i.secrets = secretsmanager.NewFromConfig(awsConfig)
	}
	return nil
}
