// Package operadorasapi é a API de consulta somente leitura sobre os dados
// públicos da ANS: cadastro de operadoras de planos de saúde (tb_operadoras) e
// despesas consolidadas por trimestre (tb_consolidado_despesas).
//
// Visão Geral:
// O serviço expõe três consultas sobre um PostgreSQL já populado:
// 1. Listagem paginada de operadoras com busca por razão social ou CNPJ.
// 2. Dashboard com as 10 UFs de maior despesa total.
// 3. Detalhe de uma operadora (cadastro completo + histórico de despesas).
//
// Sub-Pacotes Principais:
//
// 1. envloader:
//   - Carregamento de configurações via tags "env", "envDefault" e "envRequired".
//   - Suporte a time.Duration e listas separadas por vírgula.
//
// 2. pkg/config:
//   - AppConfig (YAML + ambiente), hooks de carga e validação com validator/v10.
//
// 3. pkg/operadoras:
//   - Modelos, montagem de SQL, Repository (lib/pq) e Service com paginação,
//     validação de parâmetros e cache opcional do dashboard.
//
// 4. pkg/transport:
//   - Router gorilla/mux, envelopes JSON, CORS, rate limit, observabilidade
//     e adaptador para API Gateway (Lambda).
//
// 5. pkg/secrets, pkg/database, pkg/cache, pkg/logger, pkg/metrics, pkg/observability:
//   - Infraestrutura: credenciais na AWS, pool PostgreSQL, Redis, zerolog e Datadog.
//
// Exemplo de Início Rápido:
//
//	export DB_HOST=localhost DB_PASSWORD=password
//	go run ./cmd/server
//	curl 'http://localhost:8000/operadoras?page=1&limit=10&search=Unimed'
//
// A validação da configuração sem subir o servidor:
//
//	go run ./cmd/toolkit validate --file config.yaml -o json
package operadorasapi
