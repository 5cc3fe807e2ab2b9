package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/catalog"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// CatalogUseCase categorías, colores y unidades.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// Get catálogo completo.
func (uc *CatalogUseCase) Get(ctx context.Context) (*dto.CatalogResponse, error) {
	categories, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: categorías: %w", err)
	}
	colors, err := uc.repo.ListColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: colores: %w", err)
	}
	units, err := uc.repo.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: unidades: %w", err)
	}

	out := &dto.CatalogResponse{
		Categories: make([]dto.CategoryDTO, 0, len(categories)),
		Colors:     make([]dto.ColorDTO, 0, len(colors)),
		Units:      make([]dto.UnitDTO, 0, len(units)),
	}
	for _, c := range categories {
		out.Categories = append(out.Categories, dto.CategoryDTO{ID: c.ID, Name: c.Name})
	}
	for _, c := range colors {
		out.Colors = append(out.Colors, dto.ColorDTO{ID: c.ID, Name: c.Name, HexCode: c.HexCode})
	}
	for _, u := range units {
		out.Units = append(out.Units, dto.UnitDTO{ID: u.ID, Name: u.Name})
	}
	return out, nil
}

// CreateCategory crea una categoría; el nombre no puede repetirse (sin distinguir mayúsculas).
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryDTO, error) {
	name := strings.Join(strings.Fields(in.Name), " ")
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	existing, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: categorías: %w", err)
	}
	for _, c := range existing {
		if catalog.SameName(c.Name, name) {
			return nil, fmt.Errorf("%w: la categoría %q ya existe", domain.ErrDuplicate, c.Name)
		}
	}
	category := &entity.Category{ID: uuid.Must(uuid.NewV7()).String(), Name: name, CreatedAt: time.Now().UTC()}
	if err := uc.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return &dto.CategoryDTO{ID: category.ID, Name: category.Name}, nil
}

// CreateColor crea un color; mismo control de duplicados que las categorías.
func (uc *CatalogUseCase) CreateColor(ctx context.Context, in dto.CreateColorRequest) (*dto.ColorDTO, error) {
	name := strings.Join(strings.Fields(in.Name), " ")
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	existing, err := uc.repo.ListColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: colores: %w", err)
	}
	for _, c := range existing {
		if catalog.SameName(c.Name, name) {
			return nil, fmt.Errorf("%w: el color %q ya existe", domain.ErrDuplicate, c.Name)
		}
	}
	color := &entity.Color{ID: uuid.Must(uuid.NewV7()).String(), Name: name, HexCode: in.HexCode}
	if err := uc.repo.CreateColor(ctx, color); err != nil {
		return nil, err
	}
	return &dto.ColorDTO{ID: color.ID, Name: color.Name, HexCode: color.HexCode}, nil
}

// CreateUnit crea una unidad de medida.
func (uc *CatalogUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitDTO, error) {
	name := strings.Join(strings.Fields(in.Name), " ")
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	existing, err := uc.repo.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: unidades: %w", err)
	}
	for _, u := range existing {
		if catalog.SameName(u.Name, name) {
			return nil, fmt.Errorf("%w: la unidad %q ya existe", domain.ErrDuplicate, u.Name)
		}
	}
	unit := &entity.Unit{ID: uuid.Must(uuid.NewV7()).String(), Name: name}
	if err := uc.repo.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}
	return &dto.UnitDTO{ID: unit.ID, Name: unit.Name}, nil
}
