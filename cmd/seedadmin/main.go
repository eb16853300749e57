// cmd/seedadmin/main.go — creates or refreshes the demo admin account.
// Usage: go run ./cmd/seedadmin
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "stocktrail.db"
	}
	email := "admin@stocktrail.local"
	password := "admin1234"
	name := "Admin"
	role := "admin"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (id, name, email, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, datetime('now'), datetime('now'))
		ON CONFLICT (email) DO UPDATE
		SET password_hash = excluded.password_hash,
		    name = excluded.name,
		    role = excluded.role,
		    active = 1,
		    updated_at = datetime('now')
	`, uuid.NewString(), name, email, string(hash), role)

	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("user '%s' created/updated with password '%s'\n", email, password)
}
