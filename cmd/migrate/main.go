// Comando migrate aplica el esquema (users, case_serial, sms_record, report_record)
// con las migraciones SQL embebidas en el binario.
//
// Uso: migrate [-dsn postgres://...] -up | -down | -steps N | -version | -force N
// Sin -dsn toma la conexión de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"

	"github.com/jhoicas/antifraude-api/internal/infrastructure/postgres"
	"github.com/jhoicas/antifraude-api/pkg/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	var (
		dsn     = flag.String("dsn", "", "cadena de conexión (por defecto la de la configuración)")
		up      = flag.Bool("up", false, "aplicar todas las migraciones")
		down    = flag.Bool("down", false, "revertir todas las migraciones")
		steps   = flag.Int("steps", 0, "número de migraciones (positivo=up, negativo=down)")
		version = flag.Bool("version", false, "mostrar la versión actual")
		force   = flag.Int("force", -1, "forzar versión (con cuidado)")
	)
	flag.Parse()

	forceSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			forceSet = true
		}
	})

	url, err := migrationURL(*dsn)
	if err != nil {
		log.Fatalf("configuración: %v", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		log.Fatalf("fuente de migraciones: %v", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		log.Fatalf("crear migrador: %v", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("versión: %v", err)
		}
		fmt.Printf("versión: %d, dirty: %v\n", v, dirty)
	case forceSet:
		if err := m.Force(*force); err != nil {
			log.Fatalf("forzar versión: %v", err)
		}
		fmt.Printf("versión forzada a %d\n", *force)
	case *up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migraciones up: %v", err)
		}
		fmt.Println("migraciones aplicadas")
	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migraciones down: %v", err)
		}
		fmt.Println("migraciones revertidas")
	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migraciones: %v", err)
		}
		fmt.Printf("%d pasos aplicados\n", *steps)
	default:
		fmt.Println("uso: migrate [-dsn <conexión>] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
	}
}

// migrationURL el driver pgx/v5 de migrate espera el esquema pgx5://.
func migrationURL(dsn string) (string, error) {
	if dsn != "" {
		for _, prefix := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(dsn, prefix) {
				return "pgx5://" + strings.TrimPrefix(dsn, prefix), nil
			}
		}
		return dsn, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return postgres.MigrationURL(cfg.DB)
}
