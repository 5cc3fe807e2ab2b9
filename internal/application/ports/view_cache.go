package ports

import "context"

// Claves de vistas derivadas del libro; se invalidan tras cada escritura.
const (
	ViewDashboard = "view:dashboard"
	ViewProducts  = "view:products:active"
)

// StockViews todas las vistas que dependen de saldos.
var StockViews = []string{ViewDashboard, ViewProducts}

// ViewCache caché de lectura para vistas costosas (dashboard, listado de productos).
// Un fallo de caché nunca debe romper la lectura: el llamador recalcula desde el libro.
type ViewCache interface {
	// Get decodifica en dst; false si no existe o expiró.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}
