package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hotel-room-booking/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "booking",
		DBPass: "secret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "hotel",
	}
	assert.Equal(t,
		"booking:secret@tcp(db.internal:3306)/hotel?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSN_EmptyPasswordOmitsColon(t *testing.T) {
	cfg := config.Config{
		DBUser: "booking",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "hotel",
	}
	assert.Equal(t,
		"booking@tcp(localhost:3306)/hotel?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
