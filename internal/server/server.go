// Package server wires stores, domain services and handlers into the HTTP
// router.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/config"
	"github.com/dukerupert/cointrack/internal/events"
	"github.com/dukerupert/cointrack/internal/handler"
	"github.com/dukerupert/cointrack/internal/ledger"
	"github.com/dukerupert/cointrack/internal/metrics"
	"github.com/dukerupert/cointrack/internal/middleware"
	"github.com/dukerupert/cointrack/internal/registry"
	ws "github.com/dukerupert/cointrack/internal/websocket"
)

type Server struct {
	db          *sql.DB
	cfg         *config.Config
	hub         *ws.Hub
	dispatcher  *events.Dispatcher
	registry    *registry.Registry
	authH       *handler.AuthHandler
	ledgerH     *handler.LedgerHandler
	familyH     *handler.FamilyHandler
	profileH    *handler.ProfileHandler
	rateLimiter *middleware.RateLimiter
	clientIP    *middleware.ClientIP
	metrics     *metrics.Metrics
	origins     []string
	logger      *slog.Logger
}

// New builds the server. m may be nil. Extra sinks receive every event in
// addition to the websocket hub.
func New(db *sql.DB, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger, sinks ...events.Sink) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	dispatcher := events.NewDispatcher(logger.With("component", "events"), m, append([]events.Sink{hub}, sinks...)...)

	reg := registry.New(db,
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		dispatcher, m,
		logger.With("component", "registry"),
	)
	ldg := ledger.New(db, dispatcher, m, logger.With("component", "ledger"))

	expose := cfg.IsDevelopment()
	clientIP, err := middleware.NewClientIP(cfg.TrustedProxyCIDRs())
	if err != nil {
		logger.Error("ignoring trusted proxies", "error", err)
		clientIP, _ = middleware.NewClientIP(nil)
	}
	m.RegisterGaugeFunc("websocket_clients", "Connected websocket clients.", func() float64 {
		return float64(hub.ClientCount())
	})

	return &Server{
		db:          db,
		cfg:         cfg,
		hub:         hub,
		dispatcher:  dispatcher,
		registry:    reg,
		authH:       handler.NewAuthHandler(reg, logger.With("component", "auth"), expose),
		ledgerH:     handler.NewLedgerHandler(ldg, logger.With("component", "ledger_handler"), expose),
		familyH:     handler.NewFamilyHandler(reg, logger.With("component", "family"), expose),
		profileH:    handler.NewProfileHandler(reg, logger.With("component", "profile"), expose),
		rateLimiter: middleware.NewRateLimiter(),
		clientIP:    clientIP,
		metrics:     m,
		origins:     middleware.ParseOrigins(cfg.CORSOrigins),
		logger:      logger,
	}
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Router returns the HTTP handler. Every protected route is wrapped
// individually so the matched pattern stays visible to the outer
// middleware.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health(s.db, s.logger))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.Handle("POST /api/auth/admin/signup", s.rateLimited(s.authH.AdminSignup))
	mux.Handle("POST /api/auth/member/signup", s.rateLimited(s.authH.MemberSignup))
	mux.Handle("POST /api/auth/login", s.rateLimited(s.authH.Login))

	s.registerProtectedRoutes(mux)

	authWS := middleware.RequireAuthWebSocket(s.registry, s.logger.With("component", "auth"))
	mux.Handle("GET /api/ws", authWS(ws.HandleWebSocket(s.hub, s.origins, s.logger.With("component", "websocket"))))

	var h http.Handler = mux
	h = s.metrics.Middleware(h)
	h = middleware.CORS(s.origins)(h)
	h = middleware.Recover(s.logger)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"), s.clientIP.Resolve)(h)
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, s.clientIP.Resolve, s.cfg.AuthRateLimit, s.cfg.AuthRateWindow)(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	requireAuth := middleware.RequireAuth(s.registry, s.logger.With("component", "auth"))
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireAuth(h))
	}

	handle("POST /api/expense", s.ledgerH.CreateExpense)
	handle("GET /api/expense", s.ledgerH.ListExpenses)
	handle("POST /api/income", s.ledgerH.CreateIncome)
	handle("GET /api/transactions", s.ledgerH.ListTransactions)

	handle("GET /api/family/details", s.familyH.Details)
	handle("GET /api/family/members", s.familyH.Members)
	handle("GET /api/family/members/{memberId}", s.familyH.Member)
	handle("GET /api/family/balance", s.familyH.Balance)

	handle("GET /api/profile", s.profileH.Get)
	handle("PUT /api/profile/photo", s.profileH.UpdatePhoto)
}
