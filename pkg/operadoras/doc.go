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
// Package operadoras implementa as consultas do serviço: listagem paginada de
// operadoras de planos de saúde, totais de despesas por UF e detalhes de uma
// operadora com seu histórico de despesas.
//
// As tabelas tb_operadoras e tb_consolidado_despesas pertencem a outro
// processo; este pacote apenas lê. Toda filtragem, ordenação e agregação é
// feita pelo PostgreSQL.
package operadoras
