package operadoras

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPage_JSONShape(t *testing.T) {
	page := Page{
		Data: []Operadora{{
			RegistroANS: "123456",
			CNPJ:        strPtr("12345678000199"),
			RazaoSocial: strPtr("UNIMED TESTE"),
		}},
		Total:      23,
		Page:       1,
		Limit:      10,
		TotalPages: 3,
	}

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"data": [{"registro_ans": "123456", "cnpj": "12345678000199", "razao_social": "UNIMED TESTE", "modalidade": null}],
		"total": 23, "page": 1, "limit": 10, "total_pages": 3
	}`, string(raw))
}

func TestDespesaUF_TotalIsNumber(t *testing.T) {
	raw, err := json.Marshal([]DespesaUF{{UF: "SP", Total: decimal.RequireFromString("130.50")}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"uf": "SP", "total": 130.5}]`, string(raw))
}

func TestDetalhes_JSONShape(t *testing.T) {
	d := Detalhes{
		Cadastro: Cadastro{"registro_ans": "123456", "uf": "SP"},
		HistoricoDespesas: []Despesa{
			{Ano: 2025, Trimestre: 2, ValorDespesa: decimal.NewNullDecimal(decimal.NewFromInt(1000))},
			{Ano: 2025, Trimestre: 1},
		},
	}

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"cadastro": {"registro_ans": "123456", "uf": "SP"},
		"historico_despesas": [
			{"ano": 2025, "trimestre": 2, "valor_despesa": 1000},
			{"ano": 2025, "trimestre": 1, "valor_despesa": null}
		]
	}`, string(raw))
}

func TestDetalhes_EmptyHistoryIsArray(t *testing.T) {
	raw, err := json.Marshal(Detalhes{Cadastro: Cadastro{}, HistoricoDespesas: []Despesa{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cadastro": {}, "historico_despesas": []}`, string(raw))
}
