package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all database migrations for the dialect
func GetMigrations(dbType string) []Migration {
	if dbType == "postgres" {
		return getPostgresMigrations()
	}
	return getSQLiteMigrations()
}

func getPostgresMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL,
				role VARCHAR(32) NOT NULL DEFAULT 'attendee',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		},
		{
			Version:     2,
			Description: "Create events table",
			SQL: `CREATE TABLE IF NOT EXISTS events (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				organizer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				location VARCHAR(255) NOT NULL DEFAULT '',
				category VARCHAR(64) NOT NULL DEFAULT '',
				starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
				ends_at TIMESTAMP WITH TIME ZONE NOT NULL,
				ticket_price DECIMAL(10,2) NOT NULL DEFAULT 0,
				capacity INTEGER NOT NULL DEFAULT 0,
				require_approval BOOLEAN NOT NULL DEFAULT FALSE,
				deferred_payment BOOLEAN NOT NULL DEFAULT FALSE,
				image_url TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_events_organizer_id ON events(organizer_id);
			CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at)`,
		},
		{
			Version:     3,
			Description: "Create registrations table",
			SQL: `CREATE TABLE IF NOT EXISTS registrations (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				status VARCHAR(32) NOT NULL DEFAULT 'pending',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				UNIQUE (event_id, user_id)
			);
			CREATE INDEX IF NOT EXISTS idx_registrations_event_id ON registrations(event_id);
			CREATE INDEX IF NOT EXISTS idx_registrations_user_id ON registrations(user_id);
			CREATE INDEX IF NOT EXISTS idx_registrations_status ON registrations(status)`,
		},
		{
			Version:     4,
			Description: "Create payment_orders table",
			SQL: `CREATE TABLE IF NOT EXISTS payment_orders (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				order_number VARCHAR(50) NOT NULL UNIQUE,
				amount DECIMAL(10,2) NOT NULL,
				currency VARCHAR(8) NOT NULL DEFAULT 'USD',
				provider_ref VARCHAR(255),
				qr_code_data TEXT,
				status VARCHAR(32) NOT NULL DEFAULT 'pending',
				paid_at TIMESTAMP WITH TIME ZONE,
				expires_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_payment_orders_event_user ON payment_orders(event_id, user_id);
			CREATE INDEX IF NOT EXISTS idx_payment_orders_status ON payment_orders(status);
			CREATE INDEX IF NOT EXISTS idx_payment_orders_order_number ON payment_orders(order_number)`,
		},
		{
			Version:     5,
			Description: "Create notifications table",
			SQL: `CREATE TABLE IF NOT EXISTS notifications (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				event_id UUID REFERENCES events(id) ON DELETE CASCADE,
				type VARCHAR(32) NOT NULL,
				title VARCHAR(255) NOT NULL,
				message TEXT NOT NULL DEFAULT '',
				read BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
			CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read)`,
		},
	}
}

func getSQLiteMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'attendee',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		},
		{
			Version:     2,
			Description: "Create events table",
			SQL: `CREATE TABLE IF NOT EXISTS events (
				id TEXT PRIMARY KEY,
				organizer_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				location TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				starts_at DATETIME NOT NULL,
				ends_at DATETIME NOT NULL,
				ticket_price REAL NOT NULL DEFAULT 0,
				capacity INTEGER NOT NULL DEFAULT 0,
				require_approval BOOLEAN NOT NULL DEFAULT 0,
				deferred_payment BOOLEAN NOT NULL DEFAULT 0,
				image_url TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (organizer_id) REFERENCES users(id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_events_organizer_id ON events(organizer_id);
			CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at)`,
		},
		{
			Version:     3,
			Description: "Create registrations table",
			SQL: `CREATE TABLE IF NOT EXISTS registrations (
				id TEXT PRIMARY KEY,
				event_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				UNIQUE (event_id, user_id),
				FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_registrations_event_id ON registrations(event_id);
			CREATE INDEX IF NOT EXISTS idx_registrations_user_id ON registrations(user_id);
			CREATE INDEX IF NOT EXISTS idx_registrations_status ON registrations(status)`,
		},
		{
			Version:     4,
			Description: "Create payment_orders table",
			SQL: `CREATE TABLE IF NOT EXISTS payment_orders (
				id TEXT PRIMARY KEY,
				event_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				order_number TEXT NOT NULL UNIQUE,
				amount REAL NOT NULL,
				currency TEXT NOT NULL DEFAULT 'USD',
				provider_ref TEXT,
				qr_code_data TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				paid_at DATETIME,
				expires_at DATETIME,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_payment_orders_event_user ON payment_orders(event_id, user_id);
			CREATE INDEX IF NOT EXISTS idx_payment_orders_status ON payment_orders(status);
			CREATE INDEX IF NOT EXISTS idx_payment_orders_order_number ON payment_orders(order_number)`,
		},
		{
			Version:     5,
			Description: "Create notifications table",
			SQL: `CREATE TABLE IF NOT EXISTS notifications (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				event_id TEXT,
				type TEXT NOT NULL,
				title TEXT NOT NULL,
				message TEXT NOT NULL DEFAULT '',
				read BOOLEAN NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
			CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read)`,
		},
	}
}

// RunMigrations applies any pending migrations
func RunMigrations(db *sql.DB, dbType string) error {
	if err := createMigrationsTable(db, dbType); err != nil {
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %v", err)
	}

	for _, migration := range GetMigrations(dbType) {
		if applied[migration.Version] {
			continue
		}

		log.Printf("[DB] Applying migration %d: %s", migration.Version, migration.Description)

		for _, stmt := range strings.Split(migration.SQL, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply migration %d: %v", migration.Version, err)
			}
		}

		if err := recordMigration(db, dbType, migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %v", migration.Version, err)
		}
	}

	return nil
}

func createMigrationsTable(db *sql.DB, dbType string) error {
	var query string
	if dbType == "postgres" {
		query = `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`
	} else {
		query = `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	}
	_, err := db.Exec(query)
	return err
}

func getAppliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func recordMigration(db *sql.DB, dbType string, version int) error {
	var query string
	if dbType == "postgres" {
		query = "INSERT INTO schema_migrations (version) VALUES ($1)"
	} else {
		query = "INSERT INTO schema_migrations (version) VALUES (?)"
	}
	_, err := db.Exec(query, version)
	return err
}
