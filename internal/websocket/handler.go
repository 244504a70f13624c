package websocket

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	ws "github.com/coder/websocket"
	"github.com/dukerupert/cointrack/internal/auth"
)

// HandleWebSocket upgrades authenticated requests and runs them as hub
// clients. origins lists the allowed Origin hosts; "*" allows any.
func HandleWebSocket(hub *Hub, origins []string, logger *slog.Logger) http.HandlerFunc {
	opts := &ws.AcceptOptions{}
	if slices.Contains(origins, "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originHosts(origins)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			logger.WarnContext(r.Context(), "websocket accept", "error", err)
			return
		}
		defer conn.CloseNow()

		logger.DebugContext(r.Context(), "websocket connected", "user_id", ac.UserID, "family_id", ac.FamilyID)
		NewClient(hub, conn, ac.UserID, ac.FamilyID).Run(r.Context())
	}
}

// originHosts strips schemes since the accept check matches on host.
func originHosts(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		out = append(out, o)
	}
	return out
}
