package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tushy123/minyan-now/config"
	"github.com/tushy123/minyan-now/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Profile{},
		&model.Space{},
		&model.OfficialMinyan{},
		&model.Membership{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.InstallChangeFeed {
		log.Println("Installing change-feed notification triggers...")
		if err := applyChangeFeedDDL(db); err != nil {
			return nil, fmt.Errorf("change-feed DDL failed: %w", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// applyChangeFeedDDL installs the triggers that publish row-level changes on
// the minyan_changes channel. The payload shape must stay in sync with the
// feed package's parser.
func applyChangeFeedDDL(db *gorm.DB) error {
	ddls := []string{
		// Space changes carry the full row; deletes carry the old row so the
		// id survives.
		`CREATE OR REPLACE FUNCTION notify_space_change() RETURNS trigger AS $$
		DECLARE
			rec record;
		BEGIN
			IF TG_OP = 'DELETE' THEN
				rec := OLD;
			ELSE
				rec := NEW;
			END IF;
			PERFORM pg_notify('minyan_changes', json_build_object(
				'table', 'spaces',
				'op', TG_OP,
				'row', row_to_json(rec)
			)::text);
			RETURN rec;
		END;
		$$ LANGUAGE plpgsql;`,

		// Membership changes carry only the affected space id; consumers must
		// re-fetch, not trust a snapshot.
		`CREATE OR REPLACE FUNCTION notify_membership_change() RETURNS trigger AS $$
		DECLARE
			rec record;
		BEGIN
			IF TG_OP = 'DELETE' THEN
				rec := OLD;
			ELSE
				rec := NEW;
			END IF;
			PERFORM pg_notify('minyan_changes', json_build_object(
				'table', 'memberships',
				'op', TG_OP,
				'space_id', rec.space_id
			)::text);
			RETURN rec;
		END;
		$$ LANGUAGE plpgsql;`,

		`DROP TRIGGER IF EXISTS spaces_notify ON spaces;`,
		`CREATE TRIGGER spaces_notify
			AFTER INSERT OR UPDATE OR DELETE ON spaces
			FOR EACH ROW EXECUTE FUNCTION notify_space_change();`,

		`DROP TRIGGER IF EXISTS memberships_notify ON memberships;`,
		`CREATE TRIGGER memberships_notify
			AFTER INSERT OR DELETE ON memberships
			FOR EACH ROW EXECUTE FUNCTION notify_membership_change();`,
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
