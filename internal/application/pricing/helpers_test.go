package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/application/pricing"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/internal/infrastructure/memory"
	"github.com/jhoicas/erp-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db        *memory.DB
	reg       *prometheus.Registry
	resolver  *pricing.BracketPriceResolver
	brackets  *pricing.BracketAdminUseCase
	overrides *pricing.OverrideAdminUseCase
}

func newFixture(t *testing.T, valuedOnly bool) *fixture {
	t.Helper()
	db := memory.New()
	reg := prometheus.NewRegistry()
	return &fixture{
		db:        db,
		reg:       reg,
		resolver:  pricing.NewBracketPriceResolver(db, valuedOnly, nil, metrics.NewInventoryMetrics(reg)),
		brackets:  pricing.NewBracketAdminUseCase(db, nil),
		overrides: pricing.NewOverrideAdminUseCase(db, nil),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func (f *fixture) run(t *testing.T, fn func(store repository.Store) error) {
	t.Helper()
	require.NoError(t, f.db.Run(context.Background(), fn))
}

func (f *fixture) seedProduct(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	f.run(t, func(store repository.Store) error {
		return store.Products().Create(context.Background(), &entity.Product{ID: id, SKU: id[:12], Name: "Producto"})
	})
	return id
}

func (f *fixture) seedCustomer(t *testing.T, valued bool) string {
	t.Helper()
	id := uuid.New().String()
	f.run(t, func(store repository.Store) error {
		return store.Customers().Create(context.Background(), &entity.Customer{ID: id, Name: "Cliente", IsValued: valued})
	})
	return id
}

func (f *fixture) seedFlatPrice(t *testing.T, productID, regular, wholesale, walkIn string, from time.Time, to *time.Time) {
	t.Helper()
	f.run(t, func(store repository.Store) error {
		return store.ProductPrices().Create(context.Background(), &entity.ProductPrice{
			ID: uuid.New().String(), ProductID: productID,
			RegularPrice: d(regular), WholesalePrice: d(wholesale), WalkInPrice: d(walkIn),
			EffectiveFrom: from, EffectiveTo: to, CreatedAt: from,
		})
	})
}

func (f *fixture) product(t *testing.T, id string) entity.Product {
	t.Helper()
	var out entity.Product
	f.run(t, func(store repository.Store) error {
		p, err := store.Products().GetByID(context.Background(), id)
		require.NotNil(t, p)
		out = *p
		return err
	})
	return out
}

func tier(min string, max *decimal.Decimal, price, priceTier string) entity.BracketTier {
	return entity.BracketTier{MinQuantity: d(min), MaxQuantity: max, Price: d(price), PriceTier: priceTier, Active: true}
}

// activeBracket crea y activa una tabla con los tramos dados.
func (f *fixture) activeBracket(t *testing.T, productID string, tiers ...entity.BracketTier) *entity.PriceBracket {
	t.Helper()
	ctx := context.Background()
	b, err := f.brackets.Create(ctx, pricing.BracketInput{ProductID: productID, Name: "Lista", Tiers: tiers, ActorID: "admin"})
	require.NoError(t, err)
	b, err = f.brackets.Activate(ctx, b.ID, "admin")
	require.NoError(t, err)
	return b
}

func (f *fixture) resolve(t *testing.T, productID, qty, priceTier, customerID string) *pricing.PriceResult {
	t.Helper()
	res, err := f.resolver.ResolvePrice(context.Background(), pricing.ResolveInput{
		ProductID: productID, Quantity: d(qty), PriceTier: priceTier, CustomerID: customerID,
	})
	require.NoError(t, err)
	return res
}
