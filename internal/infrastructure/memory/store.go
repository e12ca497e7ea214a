// Package memory implementa repository.Store en memoria con semántica de transacción:
// cada Run trabaja sobre una copia del estado y solo la publica si fn no falla.
// Se usa con STORAGE=memory (demo/desarrollo) y en los tests de aplicación y HTTP.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

type state struct {
	products  map[string]entity.Product
	prices    map[string]entity.ProductPrice
	customers map[string]entity.Customer
	inventory map[string]entity.InventoryRecord
	batches   map[string]entity.PurchaseBatch
	brackets  map[string]entity.PriceBracket
	overrides map[string]entity.CustomerPriceOverride
	sales     map[string]entity.Sale
	transfers map[string]entity.StockTransfer
	movements []entity.InventoryMovement
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		prices:    map[string]entity.ProductPrice{},
		customers: map[string]entity.Customer{},
		inventory: map[string]entity.InventoryRecord{},
		batches:   map[string]entity.PurchaseBatch{},
		brackets:  map[string]entity.PriceBracket{},
		overrides: map[string]entity.CustomerPriceOverride{},
		sales:     map[string]entity.Sale{},
		transfers: map[string]entity.StockTransfer{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.prices {
		c.prices[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.brackets {
		c.brackets[k] = copyBracket(v)
	}
	for k, v := range s.overrides {
		c.overrides[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	return c
}

func copyBracket(b entity.PriceBracket) entity.PriceBracket {
	b.Tiers = append([]entity.BracketTier(nil), b.Tiers...)
	return b
}

func copySale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return s
}

// DB base de datos en memoria. Las transacciones se serializan con un mutex,
// equivalente a bloquear todas las filas en cada Run.
type DB struct {
	mu sync.Mutex
	st *state
}

// New crea una base vacía.
func New() *DB {
	return &DB{st: newState()}
}

// Run ejecuta fn con un Store sobre una copia del estado; publica la copia solo si fn retorna nil.
func (db *DB) Run(ctx context.Context, fn func(store repository.Store) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := db.st.clone()
	if err := fn(&Store{st: work}); err != nil {
		return err
	}
	db.st = work
	return nil
}

// Movements devuelve una copia del kardex completo (lectura para tests y diagnóstico).
func (db *DB) Movements() []entity.InventoryMovement {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]entity.InventoryMovement(nil), db.st.movements...)
}

// Store implementa repository.Store sobre un estado en memoria.
type Store struct {
	st *state
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Batches() repository.BatchRepository                   { return batchRepo{s.st} }
func (s *Store) Inventory() repository.InventoryRecordRepository       { return inventoryRepo{s.st} }
func (s *Store) Products() repository.ProductRepository                { return productRepo{s.st} }
func (s *Store) ProductPrices() repository.ProductPriceRepository      { return priceRepo{s.st} }
func (s *Store) Customers() repository.CustomerRepository              { return customerRepo{s.st} }
func (s *Store) Brackets() repository.BracketRepository                { return bracketRepo{s.st} }
func (s *Store) Overrides() repository.CustomerPriceOverrideRepository { return overrideRepo{s.st} }
func (s *Store) Sales() repository.SaleRepository                      { return saleRepo{s.st} }
func (s *Store) Transfers() repository.TransferRepository              { return transferRepo{s.st} }
func (s *Store) Movements() repository.InventoryMovementRepository     { return movementRepo{s.st} }

func sortBatchesAsc(list []*entity.PurchaseBatch) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].ReceivedAt.Equal(list[j].ReceivedAt) {
			return list[i].ReceivedAt.Before(list[j].ReceivedAt)
		}
		return list[i].ID < list[j].ID
	})
}
