package app

import (
	"fmt"

	"mwork_accounts/internal/config"
	"mwork_accounts/internal/logger"
	"mwork_accounts/internal/repositories"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenUserRepository открывает хранилище аккаунтов по database.driver.
// Возвращаемая функция закрывает соединение.
func OpenUserRepository(cfg *config.Config) (repositories.UserRepository, func(), error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory account store, data is lost on restart")
		return repositories.NewMemoryUserRepository(), func() {}, nil
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.Database.DSN)
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.Database.DSN)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		// Нарушение уникального индекса -> gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.NewGormLogger(logLevel),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("database unavailable: %w", err)
	}
	logger.Info("Database connected")

	if err := repositories.AutoMigrate(gormDB); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate users table: %w", err)
	}

	return repositories.NewUserRepository(gormDB), func() { sqlDB.Close() }, nil
}
