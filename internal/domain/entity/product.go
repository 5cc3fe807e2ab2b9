package entity

import "time"

// Product variante de catálogo: categoría × color × talla × unidad.
// Nunca se elimina; solo se desactiva. El stock no se guarda aquí, se deriva de los movimientos.
type Product struct {
	ID         string
	CategoryID string
	ColorID    string
	UnitID     string
	SizeLabel  string
	SKUCode    *string // opcional, único si existe
	IsActive   bool
	CreatedAt  time.Time
}
