// Package daemon wires the database, session store and web service together.
package daemon

import (
	"fmt"

	"github.com/gofiber/storage"
	"github.com/gofiber/storage/memory"
	sessionmysql "github.com/gofiber/storage/mysql"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/dsn"
	"github.com/larik-22/howufeelin/internal/db/models"
	"github.com/larik-22/howufeelin/internal/logger/adapter/gormlogger"
	"github.com/larik-22/howufeelin/internal/web"
	"github.com/larik-22/howufeelin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start runs the Daemon's web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db := openDB(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Rating{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(newSessionStorage(cfg))

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}
}

func openDB(cfg *config.Config) *gorm.DB {
	gormCfg := &gorm.Config{
		Logger: gormlogger.New(gormlog.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DB.GormEngine {
	case "sqlite":
		db, err = gorm.Open(gormsqlite.Open(dsn.CreateSQLite(cfg)), gormCfg)
	default:
		db, err = gorm.Open(gormmysql.Open(dsn.Create(cfg)), gormCfg)
	}

	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.GormEngine).Msg("failed to connect database")
	}

	return db
}

// newSessionStorage picks the session backend matching the database engine.
// The in-memory store only survives a single process, which matches what the
// sqlite engine is for.
func newSessionStorage(cfg *config.Config) storage.Storage {
	if cfg.DB.GormEngine == "sqlite" {
		return memory.New()
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}
