// seed carga el catálogo inicial (categorías, colores, unidades) desde un CSV y
// crea el primer administrador. Es idempotente: lo que ya existe se omite.
//
// Uso: go run ./cmd/seed -catalog catalogo.csv -admin-name "Asha" -admin-pin 1234
//
// Formato del CSV (con o sin cabecera): tipo,nombre[,hex]
//
//	category,Rope
//	color,Red,#FF0000
//	unit,Meters
//
// Con -latin1 el archivo se lee como ISO-8859-1 (exportaciones de hojas de cálculo antiguas).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/store"
	"github.com/jhoicas/Bodega-api/pkg/config"
	"github.com/jhoicas/Bodega-api/pkg/logger"
)

type catalogRow struct {
	kind, name, hex string
}

func main() {
	catalogPath := flag.String("catalog", "", "CSV con tipo,nombre[,hex]")
	latin1 := flag.Bool("latin1", false, "leer el CSV como ISO-8859-1")
	adminName := flag.String("admin-name", "", "nombre del administrador inicial")
	adminPin := flag.String("admin-pin", "", "PIN de 4 dígitos del administrador inicial")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DB, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer st.Close()

	if *catalogPath != "" {
		rows, err := readCatalog(*catalogPath, *latin1)
		if err != nil {
			log.Fatal().Err(err).Str("file", *catalogPath).Msg("leer catálogo")
		}
		created, skipped, err := seedCatalog(ctx, usecase.NewCatalogUseCase(st.Catalog), rows)
		if err != nil {
			log.Fatal().Err(err).Msg("cargar catálogo")
		}
		log.Info().Int("creados", created).Int("omitidos", skipped).Msg("catálogo cargado")
	}

	if *adminPin != "" {
		if err := seedAdmin(ctx, st, *adminName, *adminPin); err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("name", *adminName).Msg("administrador listo")
	}
}

func readCatalog(path string, latin1 bool) ([]catalogRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows []catalogRow
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 2 columnas", line)
		}
		kind := strings.ToLower(strings.TrimSpace(rec[0]))
		if line == 1 && kind == "tipo" {
			continue
		}
		row := catalogRow{kind: kind, name: strings.TrimSpace(rec[1])}
		if len(rec) > 2 {
			row.hex = strings.TrimSpace(rec[2])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func seedCatalog(ctx context.Context, uc *usecase.CatalogUseCase, rows []catalogRow) (created, skipped int, err error) {
	for _, row := range rows {
		switch row.kind {
		case "category":
			_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: row.name})
		case "color":
			var hex *string
			if row.hex != "" {
				hex = &row.hex
			}
			_, err = uc.CreateColor(ctx, dto.CreateColorRequest{Name: row.name, HexCode: hex})
		case "unit":
			_, err = uc.CreateUnit(ctx, dto.CreateUnitRequest{Name: row.name})
		default:
			return created, skipped, fmt.Errorf("tipo desconocido %q (category | color | unit)", row.kind)
		}
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		case err != nil:
			return created, skipped, fmt.Errorf("%s %q: %w", row.kind, row.name, err)
		default:
			created++
		}
	}
	return created, skipped, nil
}

// seedAdmin crea el administrador salvo que ya exista un usuario activo con ese PIN.
func seedAdmin(ctx context.Context, st *store.Store, name, pin string) error {
	existing, err := auth.FindActiveByPin(ctx, st.Users, pin)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = usecase.NewUserUseCase(st.Users).Create(ctx, dto.CreateUserRequest{
		Name: name,
		Pin:  pin,
		Role: entity.RoleAdmin,
	})
	return err
}
