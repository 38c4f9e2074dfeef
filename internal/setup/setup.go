package setup

import (
	"fmt"
	"os"
	"time"

	model "auction-house/internal/models"
	"auction-house/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenDB connects to MySQL using the MYSQL_* environment variables
// and applies connection pool settings.
func OpenDB() (*gorm.DB, error) {
	dsn, err := dsnFromEnv()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	utils.Info("MySQL connected", nil)
	return db, nil
}

// Migrate creates or updates the schema for all entities
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Auction{},
		&model.Bid{},
		&model.Comment{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	utils.Info("database migration completed", nil)
	return nil
}

// dsnFromEnv builds the MySQL DSN. User and password are required,
// host, port and database name have local-development defaults.
func dsnFromEnv() (string, error) {
	user := os.Getenv("MYSQL_USER")
	if user == "" {
		return "", fmt.Errorf("MYSQL_USER environment variable not set")
	}
	password := os.Getenv("MYSQL_PASSWORD")
	if password == "" {
		return "", fmt.Errorf("MYSQL_PASSWORD environment variable not set")
	}
	host := os.Getenv("MYSQL_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("MYSQL_PORT")
	if port == "" {
		port = "3306"
	}
	name := os.Getenv("MYSQL_DB")
	if name == "" {
		name = "auction_house"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, password, host, port, name)
	return dsn, nil
}
