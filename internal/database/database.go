package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens the shared connection pool. Every store borrows from it per
// query; nothing holds a connection across requests.
func Connect(dbURL string, maxOpenConns int) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Printf("   📍 Pool size: %d connections", maxOpenConns)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Open("postgres", dbURL)
	if err != nil {
		log.Printf("❌ DATABASE CONNECTION FAILED AT sqlx.Open(): %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ DATABASE CONNECTION FAILED AT Ping()")
		log.Printf("   Error type: %T", err)
		log.Printf("   Error message: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			phone TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS drivers (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			phone TEXT,
			license_number TEXT,
			license_category TEXT,
			hired_on DATE,
			salary NUMERIC(12,2),
			completed_runs INT NOT NULL DEFAULT 0,
			balance NUMERIC(12,2) NOT NULL DEFAULT 0,
			vehicle_id BIGINT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGSERIAL PRIMARY KEY,
			plate TEXT NOT NULL UNIQUE,
			make TEXT NOT NULL,
			model TEXT NOT NULL,
			year INT,
			capacity_tonnes NUMERIC(8,2),
			vehicle_type TEXT,
			odometer_km BIGINT,
			registered_on DATE,
			inspection_due DATE,
			assigned_driver_id BIGINT REFERENCES drivers(id) ON DELETE SET NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// drivers and vehicles reference each other
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = 'drivers_vehicle_id_fkey'
				AND table_name = 'drivers'
			) THEN
				ALTER TABLE drivers ADD CONSTRAINT drivers_vehicle_id_fkey
					FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE SET NULL;
			END IF;
		END $$`,

		`CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			company_name TEXT NOT NULL UNIQUE,
			address TEXT,
			city TEXT,
			postal_code TEXT,
			country TEXT,
			contact_person TEXT,
			email TEXT,
			phone TEXT,
			fax TEXT,
			tax_number TEXT,
			bank_name TEXT,
			bank_account TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			ordered_on DATE NOT NULL DEFAULT CURRENT_DATE,
			delivery_due DATE,
			cargo TEXT,
			quantity NUMERIC(12,2),
			unit TEXT,
			pickup_location TEXT,
			delivery_location TEXT,
			note TEXT,
			status TEXT NOT NULL DEFAULT 'new',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id BIGSERIAL PRIMARY KEY,
			run_number TEXT NOT NULL UNIQUE,
			driver_id BIGINT NOT NULL REFERENCES drivers(id),
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			order_id BIGINT NOT NULL REFERENCES orders(id),
			starts_on DATE NOT NULL,
			ends_on DATE,
			status TEXT NOT NULL DEFAULT 'in_progress'
				CHECK(status IN ('planned', 'in_progress', 'completed', 'cancelled')),
			note TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGSERIAL PRIMARY KEY,
			run_id BIGINT NOT NULL REFERENCES runs(id),
			invoice_number TEXT NOT NULL UNIQUE,
			issued_on DATE NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			document_path TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS fuel_logs (
			id BIGSERIAL PRIMARY KEY,
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			driver_id BIGINT REFERENCES drivers(id),
			fueled_on DATE NOT NULL,
			liters NUMERIC(10,2) NOT NULL,
			total_cost NUMERIC(12,2) NOT NULL,
			odometer_km BIGINT,
			station TEXT,
			note TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS service_logs (
			id BIGSERIAL PRIMARY KEY,
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			admin_id BIGINT REFERENCES admins(id),
			serviced_on DATE NOT NULL,
			service_type TEXT NOT NULL,
			description TEXT,
			cost NUMERIC(12,2) NOT NULL,
			odometer_km BIGINT,
			workshop TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS equipment (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			kind TEXT,
			vehicle_id BIGINT REFERENCES vehicles(id) ON DELETE SET NULL,
			capacity TEXT,
			condition TEXT,
			acquired_on DATE,
			last_checked_on DATE,
			note TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS device_tokens (
			id BIGSERIAL PRIMARY KEY,
			driver_id BIGINT NOT NULL REFERENCES drivers(id),
			token TEXT NOT NULL UNIQUE,
			platform TEXT NOT NULL CHECK(platform IN ('ios', 'android')),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_email_lower ON admins(LOWER(email))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_drivers_email_lower ON drivers(LOWER(email))`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_assigned_driver ON vehicles(assigned_driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_driver ON runs(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fuel_logs_vehicle ON fuel_logs(vehicle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_service_logs_vehicle ON service_logs(vehicle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_device_tokens_driver ON device_tokens(driver_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
