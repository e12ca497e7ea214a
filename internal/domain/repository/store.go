package repository

// Store agrupa los repositorios atados a una misma unidad de trabajo (pool o transacción).
// Todo lo que se haga a través de un Store obtenido dentro de TxRunner.Run se confirma o revierte junto.
type Store interface {
	Batches() BatchRepository
	Inventory() InventoryRecordRepository
	Products() ProductRepository
	ProductPrices() ProductPriceRepository
	Customers() CustomerRepository
	Brackets() BracketRepository
	Overrides() CustomerPriceOverrideRepository
	Sales() SaleRepository
	Transfers() TransferRepository
	Movements() InventoryMovementRepository
}
