/*
 * poster-wall is a proxy that reshapes a Plex media server into a kiosk poster wall.
 * Copyright (C) 2025  Dan Santee
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dansantee/poster-wall/pkg/utils"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps the config document in a single-row PostgreSQL table,
// for deployments where several proxy instances share one kiosk config.
type PostgresStore struct {
	db          *sql.DB
	initialized bool
}

// NewPostgresStore connects using the DB_* environment variables and creates
// the schema if needed.
func NewPostgresStore() (*PostgresStore, error) {
	utils.InfoLog("Initializing PostgreSQL config store")

	host := utils.GetEnvOrDefault("DB_HOST", "localhost")
	port := utils.GetEnvOrDefault("DB_PORT", "5432")
	dbName := utils.GetEnvOrDefault("DB_NAME", "posterwall")
	user := utils.GetEnvOrDefault("DB_USER", "postgres")
	password := utils.GetEnvOrDefault("DB_PASSWORD", "")

	connStr := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbName, user, password,
	)

	utils.DebugLog("Connecting to PostgreSQL: host=%s port=%s dbname=%s user=%s", host, port, dbName, user)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		utils.ErrorLog("Failed to connect to database: %v", err)
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}
	utils.InfoLog("Database connection successful")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	s.initialized = true
	return s, nil
}

// initSchema creates the config table if it doesn't exist
func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS wall_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			document TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		utils.ErrorLog("Failed to create wall_config table: %v", err)
		return fmt.Errorf("failed to create wall_config table: %w", err)
	}
	return nil
}

// IsInitialized returns whether the store is connected and usable
func (s *PostgresStore) IsInitialized() bool {
	return s != nil && s.initialized && s.db != nil
}

// Load returns the stored document; an absent row or invalid JSON yields an
// empty document, matching the file store.
func (s *PostgresStore) Load() ([]byte, error) {
	var doc string
	err := s.db.QueryRow(`SELECT document FROM wall_config WHERE id = 1`).Scan(&doc)
	if err == sql.ErrNoRows {
		return emptyDoc, nil
	}
	if err != nil {
		utils.WarnLog("Config store query failed: %v", err)
		return emptyDoc, nil
	}
	if !json.Valid([]byte(doc)) {
		utils.WarnLog("Config store row holds invalid JSON, treating as empty")
		return emptyDoc, nil
	}
	return []byte(doc), nil
}

// Save upserts the single config row.
func (s *PostgresStore) Save(doc []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO wall_config (id, document, updated_at)
		VALUES (1, $1, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET document = $1, updated_at = CURRENT_TIMESTAMP
	`, string(doc))
	if err != nil {
		return utils.PrintErrorAndReturn(err)
	}
	utils.DebugLog("Config store saved to PostgreSQL (%d bytes)", len(doc))
	return nil
}

// Close releases the database connection pool.
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
