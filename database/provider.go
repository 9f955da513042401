package database

import (
	"fmt"
	"strings"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ModelsOption struct {
	models []any
}

func WithModels(models ...any) *ModelsOption {
	return &ModelsOption{models: models}
}

func (m *ModelsOption) Models() []any {
	if m == nil {
		return nil
	}
	return m.models
}

func ProvideDatabase(cfg config.Config, modelsOpt *ModelsOption, log *logging.Service) (*gorm.DB, error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info("connecting to database", zap.String("driver", cfg.Database.Driver))

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the stores rely on.
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.Log.Level)),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate && len(modelsOpt.Models()) > 0 {
		if err := db.AutoMigrate(modelsOpt.Models()...); err != nil {
			log.Error("auto-migration failed", zap.Error(err))
			return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
		}
		log.Info("database models migrated", zap.Int("models", len(modelsOpt.Models())))
	}

	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(sqliteDSN(cfg.DSN)), nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: sqlite, postgres, mysql)", cfg.Driver)
	}
}

// sqliteDSN switches foreign keys on for every pooled connection so that
// ON DELETE CASCADE constraints are honoured.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
