// seed puebla la base de datos con sucursales y repuestos de demostración
// para levantar el tablero contra un entorno local vacío.
//
// Uso: go run ./cmd/seed
// Es idempotente: las sucursales y repuestos ya existentes no se duplican.
package main

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Reparaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Reparaciones-api/pkg/config"
	"github.com/jhoicas/Reparaciones-api/pkg/logger"
)

type seedBranch struct {
	name  string
	stock map[string]int64
}

var demo = []seedBranch{
	{
		name: "Sucursal Centro",
		stock: map[string]int64{
			"Pantalla iPhone 13":      8,
			"Batería Samsung A52":     12,
			"Puerto de carga USB-C":   20,
			"Cámara trasera Xiaomi":   5,
			"Vidrio templado 6.1\"":   40,
		},
	},
	{
		name: "Sucursal Norte",
		stock: map[string]int64{
			"Pantalla Samsung S21":    6,
			"Batería iPhone 12":       10,
			"Flex de encendido":       15,
			"Altavoz auricular":       18,
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	for _, b := range demo {
		var branchID string
		// Reutiliza la sucursal si ya existe por nombre.
		err := pool.QueryRow(ctx, `SELECT id FROM branches WHERE name = $1`, b.name).Scan(&branchID)
		if err != nil {
			branchID = uuid.New().String()
			if _, err := pool.Exec(ctx,
				`INSERT INTO branches (id, name) VALUES ($1, $2)`, branchID, b.name); err != nil {
				log.Fatal().Err(err).Str("branch", b.name).Msg("insertar sucursal")
			}
			log.Info().Str("branch", b.name).Str("id", branchID).Msg("sucursal creada")
		}

		for name, qty := range b.stock {
			tag, err := pool.Exec(ctx,
				`INSERT INTO stock_items (id, branch_id, name, quantity)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (branch_id, name) DO NOTHING`,
				uuid.New().String(), branchID, name, qty)
			if err != nil {
				log.Fatal().Err(err).Str("item", name).Msg("insertar repuesto")
			}
			if tag.RowsAffected() > 0 {
				log.Info().Str("branch", b.name).Str("item", name).Int64("quantity", qty).Msg("repuesto creado")
			}
		}
	}

	log.Info().Msg("seed completado")
}
