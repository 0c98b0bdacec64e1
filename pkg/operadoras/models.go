package operadoras

import "github.com/shopspring/decimal"

func init() {
	// Valores monetários saem como número JSON (130.5) e não como string ("130.5")
	decimal.MarshalJSONWithoutQuotes = true
}

// Operadora é a projeção usada na listagem. Colunas anuláveis viram null no JSON.
type Operadora struct {
	RegistroANS string  `json:"registro_ans"`
	CNPJ        *string `json:"cnpj"`
	RazaoSocial *string `json:"razao_social"`
	Modalidade  *string `json:"modalidade"`
}

// Cadastro é a linha completa de tb_operadoras (SELECT *), coluna -> valor.
type Cadastro map[string]interface{}

// Despesa é um registro do histórico trimestral de uma operadora.
type Despesa struct {
	Ano          int                 `json:"ano"`
	Trimestre    int                 `json:"trimestre"`
	ValorDespesa decimal.NullDecimal `json:"valor_despesa"`
}

// DespesaUF é o total de despesas agregado por UF.
type DespesaUF struct {
	UF    string          `json:"uf"`
	Total decimal.Decimal `json:"total"`
}

// ListFilter descreve uma página da listagem.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// Page é a resposta da listagem paginada.
type Page struct {
	Data       []Operadora `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// Detalhes agrega cadastro e histórico de despesas de uma operadora.
type Detalhes struct {
	Cadastro          Cadastro  `json:"cadastro"`
	HistoricoDespesas []Despesa `json:"historico_despesas"`
}
