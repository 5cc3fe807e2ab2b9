package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/catalog"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

const searchLimit = 50

// ProductUseCase aplica reglas de negocio para productos y sus saldos derivados.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	catalogRepo repository.CatalogRepository
	reportRepo  repository.ReportRepository
	balances    *inventory.BalanceResolver
	cache       ports.ViewCache
	log         zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	catalogRepo repository.CatalogRepository,
	reportRepo repository.ReportRepository,
	balances *inventory.BalanceResolver,
	cache ports.ViewCache,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		reportRepo:  reportRepo,
		balances:    balances,
		cache:       cache,
		log:         log,
	}
}

// List productos activos con su saldo. Sin búsqueda devuelve todos (y usa la caché de vistas);
// con búsqueda, hasta 50 coincidencias.
func (uc *ProductUseCase) List(ctx context.Context, search string) ([]dto.ProductResponse, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		var cached []dto.ProductResponse
		if ok, err := uc.cache.Get(ctx, ports.ViewProducts, &cached); err != nil {
			uc.log.Warn().Err(err).Msg("caché de productos no disponible")
		} else if ok {
			return cached, nil
		}
	}

	filter := repository.ProductFilter{Search: search, ActiveOnly: true}
	if search != "" {
		filter.Limit = searchLimit
	}
	products, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	balances, err := uc.balances.BalanceMapOf(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p, balances.Of(p.ID)))
	}

	if search == "" {
		if err := uc.cache.Set(ctx, ports.ViewProducts, out); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar productos en caché")
		}
	}
	return out, nil
}

// Get producto con saldo e historial completo, más recientes primero.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	p, err := uc.detail(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := uc.balances.BalanceOf(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := uc.reportRepo.ListMovements(ctx, repository.MovementFilter{ProductID: id})
	if err != nil {
		return nil, fmt.Errorf("historial de %s: %w", id, err)
	}
	return &dto.ProductDetailResponse{
		ProductResponse: dto.NewProductResponse(p, balance),
		Movements:       dto.NewMovementDTOs(history),
	}, nil
}

// Balance saldo derivado de un producto.
func (uc *ProductUseCase) Balance(ctx context.Context, id string) (*dto.BalanceResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	b, err := uc.balances.BalanceOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{ProductID: id, Balance: b, Status: ledger.StockStatus(b)}, nil
}

// Balances saldos de todos los productos activos en una sola pasada.
func (uc *ProductUseCase) Balances(ctx context.Context) ([]dto.BalanceResponse, error) {
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	balances, err := uc.balances.BalanceMapOf(ctx, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceResponse, 0, len(ids))
	for _, id := range ids {
		b := balances.Of(id)
		out = append(out, dto.BalanceResponse{ProductID: id, Balance: b, Status: ledger.StockStatus(b)})
	}
	return out, nil
}

// Create crea una variante. La talla se normaliza; si la variante ya existe devuelve ErrDuplicate.
// Sin SKU se genera uno a partir de los nombres del catálogo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	size := catalog.NormalizeSizeLabel(in.SizeLabel)
	if size == "" {
		return nil, fmt.Errorf("%w: la talla es obligatoria", domain.ErrValidation)
	}
	names, err := uc.catalogNames(ctx, in.CategoryID, in.ColorID, in.UnitID)
	if err != nil {
		return nil, err
	}

	variants, err := uc.productRepo.ListVariants(ctx, in.CategoryID, in.ColorID, in.UnitID)
	if err != nil {
		return nil, fmt.Errorf("buscar variantes: %w", err)
	}
	for _, v := range variants {
		if catalog.SizeLabelMatches(v.SizeLabel, size) {
			return nil, fmt.Errorf("%w: la variante ya existe (talla %q)", domain.ErrDuplicate, v.SizeLabel)
		}
	}

	sku := in.SKUCode
	if sku != nil {
		trimmed := strings.ToUpper(strings.TrimSpace(*sku))
		sku = &trimmed
	}
	if sku == nil || *sku == "" {
		generated := catalog.GenerateSKUCode(names[0], names[1], size, names[2])
		sku = &generated
	}

	product := &entity.Product{
		ID:         uuid.Must(uuid.NewV7()).String(),
		CategoryID: in.CategoryID,
		ColorID:    in.ColorID,
		UnitID:     in.UnitID,
		SizeLabel:  size,
		SKUCode:    sku,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidateViews(ctx)
	p, err := uc.detail(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(p, decimal.Zero)
	return &resp, nil
}

// Update cambia talla y/o estado. La nueva talla tampoco puede chocar con otra variante.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.SizeLabel != nil {
		size := catalog.NormalizeSizeLabel(*in.SizeLabel)
		if size == "" {
			return nil, fmt.Errorf("%w: la talla es obligatoria", domain.ErrValidation)
		}
		variants, err := uc.productRepo.ListVariants(ctx, product.CategoryID, product.ColorID, product.UnitID)
		if err != nil {
			return nil, fmt.Errorf("buscar variantes: %w", err)
		}
		for _, v := range variants {
			if v.ID != product.ID && catalog.SizeLabelMatches(v.SizeLabel, size) {
				return nil, fmt.Errorf("%w: la variante ya existe (talla %q)", domain.ErrDuplicate, v.SizeLabel)
			}
		}
		product.SizeLabel = size
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidateViews(ctx)

	p, err := uc.detail(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := uc.balances.BalanceOf(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(p, balance)
	return &resp, nil
}

func (uc *ProductUseCase) invalidateViews(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx, ports.StockViews...); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron invalidar las vistas de productos")
	}
}

func (uc *ProductUseCase) detail(ctx context.Context, id string) (*repository.ProductDetail, error) {
	p, err := uc.productRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// catalogNames resuelve [categoría, color, unidad]; ErrValidation si algún id no existe.
func (uc *ProductUseCase) catalogNames(ctx context.Context, categoryID, colorID, unitID string) ([3]string, error) {
	var names [3]string
	categories, err := uc.catalogRepo.ListCategories(ctx)
	if err != nil {
		return names, fmt.Errorf("catálogo: categorías: %w", err)
	}
	for _, c := range categories {
		if c.ID == categoryID {
			names[0] = c.Name
		}
	}
	colors, err := uc.catalogRepo.ListColors(ctx)
	if err != nil {
		return names, fmt.Errorf("catálogo: colores: %w", err)
	}
	for _, c := range colors {
		if c.ID == colorID {
			names[1] = c.Name
		}
	}
	units, err := uc.catalogRepo.ListUnits(ctx)
	if err != nil {
		return names, fmt.Errorf("catálogo: unidades: %w", err)
	}
	for _, u := range units {
		if u.ID == unitID {
			names[2] = u.Name
		}
	}
	switch {
	case names[0] == "":
		return names, fmt.Errorf("%w: categoría %q no existe", domain.ErrValidation, categoryID)
	case names[1] == "":
		return names, fmt.Errorf("%w: color %q no existe", domain.ErrValidation, colorID)
	case names[2] == "":
		return names, fmt.Errorf("%w: unidad %q no existe", domain.ErrValidation, unitID)
	}
	return names, nil
}
