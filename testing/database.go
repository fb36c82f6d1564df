// Package testing provides test utilities: a mocked gorm database and domain fixtures
package testing

import (
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockDB is a gorm connection backed by go-sqlmock speaking the postgres dialect
type MockDB struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
	sql  *sql.DB
}

// SetupMockDB opens a gorm postgres session over a sqlmock connection
func SetupMockDB() (*MockDB, error) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm over sqlmock: %w", err)
	}

	return &MockDB{DB: db, Mock: mock, sql: sqlDB}, nil
}

// Close releases the underlying mock connection
func (m *MockDB) Close() error {
	return m.sql.Close()
}

// ExpectationsWereMet reports unmet or unexpected statements
func (m *MockDB) ExpectationsWereMet() error {
	return m.Mock.ExpectationsWereMet()
}
