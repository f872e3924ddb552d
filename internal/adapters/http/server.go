// Package http serves alert reports over a JSON HTTP API.
package http

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/ports"
	"go.uber.org/zap"
)

// errDateRequired is the body of a JSON request without a date
const errDateRequired = "Date is required in JSON payload."

// Reporter runs one report batch for a date
type Reporter interface {
	Run(ctx context.Context, date string) core.BatchResult
}

// dateRequest is the JSON body of POST /api/process_alerts
type dateRequest struct {
	Date string `json:"date"`
}

// Server exposes report runs over HTTP
type Server struct {
	app        *fiber.App
	reporter   Reporter
	notifier   ports.ReportNotifier
	listenAddr string
	logger     *zap.Logger
	now        func() time.Time
}

// NewServer creates a new HTTP front end. notifier may be nil.
func NewServer(
	reporter Reporter,
	notifier ports.ReportNotifier,
	listenAddr string,
	corsOrigins string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		reporter:   reporter,
		notifier:   notifier,
		listenAddr: listenAddr,
		logger:     logger,
		now:        time.Now,
	}

	app := fiber.New(fiber.Config{
		AppName:               "alert-report",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: corsOrigins}))

	app.Get("/health", s.handleHealth)
	app.Get("/api/process_alerts", s.handleQuery)
	app.Post("/api/process_alerts", s.handleJSON)
	app.Post("/process_alerts", s.handleForm)

	s.app = app
	return s
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the configured address until Stop is called
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("address", s.listenAddr))
	return s.app.Listen(s.listenAddr)
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleQuery serves GET /api/process_alerts?date=YYYY-MM-DD
func (s *Server) handleQuery(c *fiber.Ctx) error {
	return s.respond(c, c.Query("date", s.today()))
}

// handleForm serves the form POST /process_alerts
func (s *Server) handleForm(c *fiber.Ctx) error {
	date := c.FormValue("date")
	if date == "" {
		date = s.today()
	}
	return s.respond(c, date)
}

// handleJSON serves POST /api/process_alerts with a {"date": ...} body
func (s *Server) handleJSON(c *fiber.Ctx) error {
	var req dateRequest
	if len(c.Body()) == 0 || json.Unmarshal(c.Body(), &req) != nil || req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errDateRequired})
	}
	return s.respond(c, req.Date)
}

func (s *Server) respond(c *fiber.Ctx, date string) error {
	s.logger.Info("Processing alerts request",
		zap.String("date", date),
		zap.String("request_id", requestID(c)))

	result := s.reporter.Run(c.UserContext(), date)
	s.notify(date, result)
	return c.JSON(result)
}

// notify sends the report in the background; failures are only logged
func (s *Server) notify(date string, result core.BatchResult) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.notifier.Notify(ctx, date, result); err != nil {
			s.logger.Error("Failed to send alert report", zap.String("date", date), zap.Error(err))
		}
	}()
}

func (s *Server) today() string {
	return s.now().Format(core.DateLayout)
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
