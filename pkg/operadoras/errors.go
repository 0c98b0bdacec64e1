package operadoras

import (
	"errors"
	"fmt"
)

// ErrNotFound indica que a operadora solicitada não existe.
var ErrNotFound = errors.New("operadora não encontrada")

// ValidationError representa parâmetros de entrada inválidos (HTTP 400).
type ValidationError struct {
	Field   string
	Message string
}

func (v *ValidationError) Error() string {
	return v.Message
}

func invalidParam(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
