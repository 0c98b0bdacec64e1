package operadoras

import (
	"strconv"
	"strings"
)

const (
	// DashboardLimit é o número máximo de UFs devolvidas pelo dashboard.
	DashboardLimit = 10

	selectOperadoras = "SELECT registro_ans, cnpj, razao_social, modalidade FROM tb_operadoras"
	searchPredicate  = ` WHERE (razao_social ILIKE $1 ESCAPE '\' OR cnpj ILIKE $1 ESCAPE '\')`

	queryDespesasPorUF = `SELECT uf, SUM(valor_despesa) AS total
FROM tb_consolidado_despesas
WHERE uf IS NOT NULL
GROUP BY uf
ORDER BY total DESC
LIMIT $1`

	queryCadastro = "SELECT * FROM tb_operadoras WHERE registro_ans = $1"

	queryHistorico = `SELECT ano, trimestre, valor_despesa
FROM tb_consolidado_despesas
WHERE registro_ans = $1
ORDER BY ano DESC, trimestre DESC`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutraliza os curingas do LIKE para que a busca seja por substring literal.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// filteredSelect devolve a listagem base com o filtro opcional de busca e
// seus argumentos posicionais.
func filteredSelect(search string) (string, []interface{}) {
	if search == "" {
		return selectOperadoras, nil
	}
	return selectOperadoras + searchPredicate, []interface{}{"%" + escapeLike(search) + "%"}
}

// buildCountQuery conta as linhas que satisfazem o mesmo predicado da listagem.
func buildCountQuery(search string) (string, []interface{}) {
	base, args := filteredSelect(search)
	return "SELECT count(*) AS total FROM (" + base + ") AS sub", args
}

// buildPageQuery ordena por razão social (registro_ans desempata, mantendo
// páginas estáveis) e aplica LIMIT/OFFSET.
func buildPageQuery(f ListFilter) (string, []interface{}) {
	base, args := filteredSelect(f.Search)
	next := len(args) + 1
	query := base +
		" ORDER BY razao_social ASC, registro_ans ASC" +
		" LIMIT $" + strconv.Itoa(next) +
		" OFFSET $" + strconv.Itoa(next+1)
	return query, append(args, f.Limit, f.Offset)
}
