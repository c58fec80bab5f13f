package loading

import (
	"errors"
	"fmt"
)

// Erros específicos do carregamento de datasets
var (
	ErrReadDataset   = errors.New("error reading dataset")
	ErrMissingColumn = errors.New("required column missing")
)

// DatasetError é um erro com o contexto do dataset que falhou
type DatasetError struct {
	Err      error  // Erro base
	Location string // Caminho do arquivo ou nome da tabela
	Cause    error  // Erro original da leitura (quando aplicável)
}

// Error implementa a interface error
func (e *DatasetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s", e.Err.Error(), e.Location, e.Cause.Error())
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Location)
}

// Unwrap retorna o erro base e a causa, permitindo errors.Is em ambos
func (e *DatasetError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// NewDatasetError cria um novo DatasetError
func NewDatasetError(err error, location string, cause error) *DatasetError {
	return &DatasetError{
		Err:      err,
		Location: location,
		Cause:    cause,
	}
}
