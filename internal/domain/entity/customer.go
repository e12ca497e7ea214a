package entity

import "time"

// Customer representa un cliente. IsValued habilita los precios especiales por cliente.
type Customer struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	IsValued  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
