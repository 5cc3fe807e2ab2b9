package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInactiveProduct     = errors.New("el producto está inactivo")
	ErrInvalidQuantity     = errors.New("la cantidad debe ser mayor que cero")
	ErrDuplicateSubmission = errors.New("este movimiento ya fue registrado")
	ErrStockInDeficit      = errors.New("el stock está en déficit")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrValidation          = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
)

// StockError rechazo de una salida con el contexto de saldo necesario para mostrarlo.
// Envuelve ErrStockInDeficit o ErrInsufficientStock.
type StockError struct {
	Err       error
	Requested decimal.Decimal
	Balance   decimal.Decimal
}

func (e *StockError) Error() string {
	if errors.Is(e.Err, ErrStockInDeficit) {
		return fmt.Sprintf("el stock está en déficit (%s); registre una entrada antes de despachar", e.Balance)
	}
	return fmt.Sprintf("no se puede despachar %s: solo hay %s en stock; ingrese %s o menos",
		e.Requested, e.Balance, e.Balance)
}

func (e *StockError) Unwrap() error { return e.Err }

// Max cantidad máxima despachable con el saldo actual.
func (e *StockError) Max() decimal.Decimal {
	if e.Balance.IsNegative() {
		return decimal.Zero
	}
	return e.Balance
}
