// Package migrations empaqueta los scripts SQL (formato goose) dentro del binario.
package migrations

import "embed"

// FS scripts NNN_nombre.sql con secciones "-- +goose Up" y "-- +goose Down".
//
//go:embed *.sql
var FS embed.FS
