// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package envloader carrega variáveis de ambiente para campos de uma struct
// Go usando as tags `env`, `envDefault` e `envRequired`.
//
// Visão Geral:
// A configuração do serviço de operadoras é descrita por structs aninhadas
// (servidor, banco, cache, métricas). O envloader percorre essas structs via
// reflection e converte cada variável para o tipo do campo.
//
// Tipos suportados:
//   - string, int*, uint*, bool, float*
//   - time.Duration (formato de time.ParseDuration, ex: "5s", "250ms")
//   - []string (lista separada por vírgula, ex: "http://a.com, http://b.com")
//   - structs aninhadas e ponteiros para structs
//   - ponteiros para os tipos acima (nil = ausente; use *bool quando um
//     false vindo do YAML não puder ser trocado pelo envDefault)
//
// Precedência:
// variável de ambiente > valor já presente no campo > envDefault. Um campo
// preenchido antes da chamada (por exemplo, a partir de um arquivo YAML)
// só é sobrescrito se a variável de ambiente existir e não for vazia.
//
// Exemplo:
//
//	type DatabaseConfig struct {
//		Host         string        `env:"DB_HOST" envRequired:"true"`
//		Port         int           `env:"DB_PORT" envDefault:"5432"`
//		QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg DatabaseConfig
//	if err := envloader.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package envloader
