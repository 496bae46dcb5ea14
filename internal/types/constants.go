package types

import (
	"os"
	"strings"
)

// ContextUserKey is where the auth middleware stores the authenticated user
// on the request context.
const ContextUserKey = "user"

// AllowedOrigins is the CORS allowlist: the local dev frontends plus anything
// named in CLIENT_URL or the comma-separated ALLOWED_ORIGINS.
var AllowedOrigins = corsOrigins()

func corsOrigins() []string {
	origins := []string{
		"http://localhost:5173",
		"http://localhost:8080",
	}

	if url := os.Getenv("CLIENT_URL"); url != "" {
		origins = append(origins, url)
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return origins
}
