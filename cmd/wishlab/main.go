package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	config "github.com/davicafu/wishlab/internal/config"
	todoApp "github.com/davicafu/wishlab/internal/todo/application"
	todoDomain "github.com/davicafu/wishlab/internal/todo/domain"
	todoRepo "github.com/davicafu/wishlab/internal/todo/infra/outbound/db/sqldb"
	todoFile "github.com/davicafu/wishlab/internal/todo/infra/outbound/filesystem"
	"github.com/davicafu/wishlab/pkg/logger"
	"github.com/davicafu/wishlab/shared/platform/persistence"
)

// ---------------- Main ----------------
func main() {
	root := &cli.Command{
		Name:  "wishlab",
		Usage: "Wishlists, todos y usuarios con listados filtrables y paginados",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			exportTodosCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Arranca el servidor HTTP, el relayer del outbox y los consumidores",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx)
		},
	}
}

func migrateCommand() *cli.Command {
	run := func(dir persistence.MigrateDirection) cli.ActionFunc {
		return func(ctx context.Context, c *cli.Command) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, d, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := persistence.Migrate(db, d, dir); err != nil {
				return err
			}
			log.Info("✅ Migraciones aplicadas", zap.String("direction", string(dir)), zap.String("dialect", d.Name))
			return nil
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Aplica o revierte el esquema",
		Commands: []*cli.Command{
			{Name: "up", Usage: "Aplica las migraciones pendientes", Action: run(persistence.MigrateUp)},
			{Name: "down", Usage: "Revierte todas las migraciones", Action: run(persistence.MigrateDown)},
		},
	}
}

func exportTodosCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-todos",
		Usage: "Vuelca los todos a un fichero JSON recorriendo el listado por cursor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Required: true, Usage: "ruta del fichero de salida"},
			&cli.StringFlag{Name: "status", Usage: "exporta solo los todos con este estado"},
			&cli.IntFlag{Name: "page-size", Value: 500, Usage: "filas por página"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			status := todoDomain.TodoStatus(c.String("status"))
			if status != "" && !status.Valid() {
				return fmt.Errorf("invalid status %q", status)
			}

			db, d, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			sink, err := todoFile.NewJSONTodoFile(c.String("out"))
			if err != nil {
				return err
			}

			service := todoApp.NewTodoService(todoRepo.NewTodoRepoSQL(db, d), nil, nil, cfg.CacheTTL, cfg.ListDefaultLimit, log)
			start := time.Now()
			n, err := service.ExportTodos(ctx, sink, status, int(c.Int("page-size")))
			if closeErr := sink.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			log.Info("📦 Exportación completada",
				zap.Int("todos", n),
				zap.String("file", c.String("out")),
				zap.Duration("took", time.Since(start)),
			)
			return nil
		},
	}
}

// bootstrap carga la configuración e inicializa el logger global.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.Debug); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger.Logger(), nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, persistence.Dialect, error) {
	d, err := persistence.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, d, err
	}

	dsn := cfg.DatabaseURL
	if d.Name == persistence.SQLite.Name {
		dsn = persistence.SQLiteDSN(cfg.SQLitePath)
	}

	db, err := persistence.Open(ctx, d, dsn)
	if err != nil {
		return nil, d, fmt.Errorf("open %s: %w", d.Name, err)
	}
	return db, d, nil
}
