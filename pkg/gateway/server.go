// Package gateway is the inbound surface of the teleop daemon: operator
// clients publish joystick frames over HTTP or WebSocket, and read loop
// status back the same two ways. Every accepted frame lands in the
// shared command buffer; the gateway never touches the loop directly.
package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/stephenadhi/go-locobot/internal/log"
	"github.com/stephenadhi/go-locobot/pkg/joy"
	"github.com/stephenadhi/go-locobot/pkg/teleop"
)

// statusInterval paces the status WebSocket broadcast.
const statusInterval = 500 * time.Millisecond

// Server publishes inbound command frames and serves loop status.
type Server struct {
	app    *fiber.App
	buf    *joy.Buffer
	status func() teleop.Status
}

// NewServer wires the routes. status is polled on demand, so the
// gateway holds no loop state of its own.
func NewServer(buf *joy.Buffer, status func() teleop.Status) *Server {
	s := &Server{buf: buf, status: status}

	app := fiber.New(fiber.Config{
		AppName:               "locobot-teleop",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/command", s.handleCommand)
	api.Get("/status", s.handleStatus)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/joy", websocket.New(s.handleJoyWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	log.Info("Gateway listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(2 * time.Second)
}

// handleCommand publishes one frame from a plain HTTP client.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var cmd joy.Command
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed command frame",
		})
	}
	s.buf.Publish(cmd)
	return c.JSON(fiber.Map{"ok": true})
}

// handleStatus returns the loop's latest snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.status())
}

// handleJoyWS streams command frames from one operator client. When the
// connection drops, a neutral frame is published so a vanished operator
// cannot leave the base driving.
func (s *Server) handleJoyWS(c *websocket.Conn) {
	session := uuid.NewString()
	log.Info("Operator connected", "session", session, "remote", c.RemoteAddr().String())

	defer func() {
		s.buf.Publish(joy.Command{})
		log.Info("Operator disconnected", "session", session)
		c.Close()
	}()

	for {
		var cmd joy.Command
		if err := c.ReadJSON(&cmd); err != nil {
			log.Debug("Operator stream closed", "session", session, "err", err)
			return
		}
		s.buf.Publish(cmd)
	}
}

// handleStatusWS pushes periodic status snapshots to one client.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	defer c.Close()

	if err := c.WriteJSON(s.status()); err != nil {
		return
	}
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := c.WriteJSON(s.status()); err != nil {
			return
		}
	}
}
