// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "shopyar",
		Password: "s3cret",
		Database: "shopyar_prod",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=shopyar password=s3cret dbname=shopyar_prod sslmode=require",
		cfg.DSN(),
	)
}
