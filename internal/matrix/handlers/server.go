package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Server wraps the Fiber application and its listen address.
type Server struct {
	app    *fiber.App
	logger *zap.Logger
	addr   string
}

// NewServer constructs the HTTP server and registers all routes. Mutating
// routes are guarded by the given auth middleware; the matrix and badge
// lookups stay open for shop-floor kiosks.
func NewServer(port int, logger *zap.Logger, h *MatrixHandler, authMiddleware fiber.Handler) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "skillmatrix",
		DisableStartupMessage: true,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/v1")
	v1.Get("/matrix", h.GetMatrix)
	v1.Get("/employees/badge/:code", h.GetEmployeeByBadge)
	v1.Get("/requirements", h.ListRequirements)

	// Everything registered below requires a valid token.
	v1.Use(authMiddleware)
	v1.Post("/employees", h.CreateEmployee)
	v1.Delete("/employees/:id", h.DeleteEmployee)
	v1.Post("/skills", h.CreateSkill)
	v1.Post("/skills/:id/revisions", h.AddRevision)
	v1.Post("/revisions/:id/activate", h.ActivateRevision)
	v1.Post("/requirements", h.CreateRequirement)
	v1.Delete("/requirements/:id", h.DeleteRequirement)
	v1.Post("/certifications", h.GrantCertification)
	v1.Post("/certifications/:id/revoke", h.RevokeCertification)

	return &Server{
		app:    app,
		logger: logger.Named("http_server"),
		addr:   fmt.Sprintf(":%d", port),
	}
}

// Start listens on the configured address and blocks until shutdown.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
	return s.app.Listen(s.addr)
}

func (s *Server) Stop() {
	if err := s.app.Shutdown(); err != nil {
		s.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
