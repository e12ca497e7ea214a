package pricing

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(store repository.Store) error) error
}
