package globals

import (
	"context"
	"os"
)

var (
	JwtSecret = []byte(getenv("JWT_SECRET", "change_me_in_production"))

	// AdminEmail is the single administrative identity. Admin-only
	// operations require the session email to match it exactly.
	AdminEmail = getenv("ADMIN_EMAIL", "admin@dondarkci.com")
)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
