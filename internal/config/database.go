// internal/config/database.go
package config

import (
	"fmt"
)

const applicationName = "nft-marketplace"

// DSN renders the keyword/value connection string understood by pgx.
// Timestamps are exchanged in UTC.
func (d DatabaseConfig) DSN() string {
	return d.dsn(d.Password)
}

// SafeDSN is DSN with the password masked, for logs.
func (d DatabaseConfig) SafeDSN() string {
	if d.Password == "" {
		return d.dsn("")
	}
	return d.dsn("****")
}

func (d DatabaseConfig) dsn(password string) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC application_name=%s",
		d.Host, d.Port, d.User, password, d.Database, d.SSLMode, applicationName,
	)
}
