package postgres

import "github.com/jhoicas/erp-backend/internal/domain/repository"

var _ repository.Store = (*Store)(nil)

// Store agrupa los repositorios sobre un mismo Querier (pool o tx).
type Store struct {
	q Querier
}

// NewStore construye el Store. Pasar pool o tx.
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

func (s *Store) Batches() repository.BatchRepository              { return NewBatchRepository(s.q) }
func (s *Store) Inventory() repository.InventoryRecordRepository  { return NewInventoryRecordRepository(s.q) }
func (s *Store) Products() repository.ProductRepository           { return NewProductRepository(s.q) }
func (s *Store) ProductPrices() repository.ProductPriceRepository { return NewProductPriceRepository(s.q) }
func (s *Store) Customers() repository.CustomerRepository         { return NewCustomerRepository(s.q) }
func (s *Store) Brackets() repository.BracketRepository           { return NewBracketRepository(s.q) }
func (s *Store) Overrides() repository.CustomerPriceOverrideRepository {
	return NewCustomerPriceOverrideRepository(s.q)
}
func (s *Store) Sales() repository.SaleRepository                  { return NewSaleRepository(s.q) }
func (s *Store) Transfers() repository.TransferRepository          { return NewTransferRepository(s.q) }
func (s *Store) Movements() repository.InventoryMovementRepository { return NewInventoryMovementRepository(s.q) }
