package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rpl-hospital/carebot-backend/internal/config"
	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/storage"
)

// AdminHandler serves the hospital staff's read-only API
type AdminHandler struct {
	store storage.Store
	cfg   *config.Config
}

func NewAdminHandler(store storage.Store, cfg *config.Config) *AdminHandler {
	return &AdminHandler{store: store, cfg: cfg}
}

// RequireToken guards admin routes with a bearer token. With no token
// configured the API stays closed rather than open.
func (h *AdminHandler) RequireToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if h.cfg.AdminToken == "" || token != h.cfg.AdminToken {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}

// GetStats returns today's activity counters, or the date given as ?date=
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	date := c.Query("date", time.Now().Format("2006-01-02"))
	stats, err := h.store.GetDailyStats(date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stats",
		})
	}
	return c.JSON(stats)
}

// GetAppointments lists appointments, filtered to one date with ?date=
func (h *AdminHandler) GetAppointments(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		appts, err := h.store.GetAppointmentsForDate(date)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load appointments",
			})
		}
		return c.JSON(fiber.Map{"appointments": appts, "count": len(appts)})
	}

	appts, err := h.store.GetAllAppointments(c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load appointments",
		})
	}
	return c.JSON(fiber.Map{"appointments": appts, "count": len(appts)})
}

// GetPatients lists registered patients
func (h *AdminHandler) GetPatients(c *fiber.Ctx) error {
	patients, err := h.store.GetAllPatients(c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load patients",
		})
	}
	return c.JSON(fiber.Map{"patients": patients, "count": len(patients)})
}

// GetFeedback lists recent feedback entries
func (h *AdminHandler) GetFeedback(c *fiber.Ctx) error {
	feedback, err := h.store.GetAllFeedback(c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load feedback",
		})
	}
	return c.JSON(fiber.Map{"feedback": feedback, "count": len(feedback)})
}

// GetDoctors returns the doctor catalog the bot books against
func (h *AdminHandler) GetDoctors(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"doctors": models.Catalog()})
}
