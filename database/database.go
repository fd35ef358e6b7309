package database

import (
	"database/sql"
	"fmt"

	"wajba-server/models"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Enable pgcrypto extension
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Order matters: foreign key dependencies
	tables := []interface{}{
		models.User{},
		models.AddressBook{},
		models.Category{},
		models.Merchant{},
		models.MenuItem{},
		models.CartSession{},
		models.CartItem{},
		models.Order{},
		models.OrderItem{},
		models.ScheduledNotification{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			log.Debug().Str("table", tableModel.TableName()).Msg("creating table")
			if _, err := db.Exec(tableModel.CreateTableSQL()); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableModel.TableName(), err)
			}
		}
	}

	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database schema ready")
	return nil
}

// runMigrations handles schema updates for existing tables
func (db *DB) runMigrations() error {
	migrations := []string{
		// One active cart session per (session key, merchant). Insert races
		// resolve through ON CONFLICT DO NOTHING against this index.
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_cart_sessions_active
		 ON cart_sessions(session_key, merchant_id) WHERE status = 'active';`,

		`CREATE INDEX IF NOT EXISTS idx_cart_sessions_key ON cart_sessions(session_key);`,
		`CREATE INDEX IF NOT EXISTS idx_cart_sessions_user ON cart_sessions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_session ON cart_items(cart_session_id);`,

		`CREATE INDEX IF NOT EXISTS idx_menu_items_merchant ON menu_items(merchant_id);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_notifications_due
		 ON scheduled_notifications(scheduled_for) WHERE NOT sent AND NOT cancelled;`,

		// Columns added after the initial schema shipped
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS push_token TEXT;`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS avatar TEXT;`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS updated_at TIMESTAMP WITH TIME ZONE DEFAULT now();`,
		`ALTER TABLE merchants ADD COLUMN IF NOT EXISTS tags TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE menu_items ADD COLUMN IF NOT EXISTS discounted_price NUMERIC(12,2);`,
		`ALTER TABLE cart_items ADD COLUMN IF NOT EXISTS special_instructions TEXT;`,
		`ALTER TABLE cart_items ADD COLUMN IF NOT EXISTS customizations JSONB NOT NULL DEFAULT '{}';`,

		// Generate avatars for existing users who don't have one
		`UPDATE users SET avatar = 'https://api.dicebear.com/7.x/avataaars/svg?seed=' || id
		 WHERE avatar IS NULL OR avatar = '';`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			log.Warn().Int("migration", i+1).Err(err).Msg("migration failed")
			// Continue with other migrations even if one fails
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
