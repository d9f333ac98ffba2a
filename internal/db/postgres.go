package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/types"
	"github.com/hrudu-dev/lucid-bi/internal/utils"
)

// PostgresService owns the process-wide database handle. It is opened once at
// startup and injected into repos; nothing else reaches for a connection.
type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "lucidbi", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}
	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		serviceLog.Error("Failed to enable vector extension", "error", err)
		return nil, fmt.Errorf("failed to enable vector extension: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.BusinessData{},
		&types.VectorData{},
		&types.Insight{},
		&types.Action{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "vector_data"
		DROP CONSTRAINT IF EXISTS "fk_vector_data_business_data_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_vector_data_business_data_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "vector_data"
		ADD CONSTRAINT "fk_vector_data_business_data_id"
		FOREIGN KEY ("business_data_id")
		REFERENCES "business_data"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_vector_data_business_data_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "actions"
		DROP CONSTRAINT IF EXISTS "fk_actions_insight_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_actions_insight_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "actions"
		ADD CONSTRAINT "fk_actions_insight_id"
		FOREIGN KEY ("insight_id")
		REFERENCES "insights"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_actions_insight_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
