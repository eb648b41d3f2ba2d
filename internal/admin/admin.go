package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// HashToken returns the bcrypt hash stored in ADMIN_TOKEN_HASH.
func HashToken(plainToken string) (string, error) {
	if plainToken == "" {
		return "", fmt.Errorf("admin token is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// VerifyToken checks if the provided token matches the stored hash
func VerifyToken(hashedToken, plainToken string) bool {
	if hashedToken == "" || plainToken == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// LogAction records a destructive admin action in the audit log
func LogAction(ctx context.Context, db *sqlx.DB, ip, route, action string, details map[string]interface{}, success bool) error {
	if db == nil {
		return nil
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Printf("[ADMIN] Failed to marshal audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO admin_audit (ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, ip, route, action, detailsJSON, success)

	if err != nil {
		log.Printf("[ADMIN] Failed to log admin action: %v", err)
	}

	return err
}
