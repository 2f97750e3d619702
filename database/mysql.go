package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"storefront-admin/config"
)

// InitDB opens the audit database with pool settings and retries the first
// ping while the server comes up.
func InitDB(cfg *config.Config) (*sql.DB, error) {
	dsn := mysql.NewConfig()
	dsn.User = cfg.DBUser
	dsn.Passwd = cfg.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = cfg.DBHost + ":" + cfg.DBPort
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		if err = db.Ping(); err == nil {
			log.Info().Str("addr", dsn.Addr).Msg("connected to MySQL")
			return db, nil
		}
		log.Warn().Err(err).Msgf("database connection attempt %d/%d failed", i+1, maxRetries)
		time.Sleep(2 * time.Second)
	}
	_ = db.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS order_status_audit (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			from_status VARCHAR(32) NOT NULL,
			to_status VARCHAR(32) NOT NULL,
			actor VARCHAR(255) NOT NULL,
			changed_at DATETIME(3) NOT NULL,
			INDEX idx_order_id (order_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create order_status_audit table: %w", err)
	}
	return nil
}
