package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"powergest/repository"
)

var (
	ErrNotFound  = repository.ErrNotFound
	ErrInvalidID = repository.ErrInvalidID

	ErrValidation        = errors.New("validation failed")
	ErrNoStock           = errors.New("No existe stock para este producto-proveedor")
	ErrInsufficientStock = errors.New("Stock insuficiente")
	ErrCompraHasVentas   = errors.New("No se puede editar una compra de un producto-proveedor con ventas registradas")
	ErrCompraBacksVentas = errors.New("No se puede eliminar esta compra porque quedarían ventas sin stock de origen")
	ErrUnknownChart      = errors.New("Invalid chart type")

	ErrPasswordRequired      = errors.New("Password is required")
	ErrPasswordNotConfigured = errors.New("Configuration not found. Run initpassword first.")
)

// InsufficientStockError reports how many units were left for the key.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente. Disponible: %d", e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError maps json field names to the failed validator tag.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name, tag := range e.Fields {
		if tag == "required" {
			return "All fields are required"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return "Invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
