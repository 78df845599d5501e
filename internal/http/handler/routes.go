package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"cmsapi/internal/model"
	"cmsapi/internal/service"
)

// Pinger is the slice of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the services behind the HTTP surface.
type Deps struct {
	Categories service.ResourceService[model.Category]
	Products   service.ResourceService[model.Product]
	Services   service.ResourceService[model.Service]
	Pages      service.PageService
	Branding   service.BrandingService
	EmailLogs  service.EmailLogService

	// AdminGuard protects settings writes; nil leaves them open.
	AdminGuard fiber.Handler
}

var validate = validator.New()

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db Pinger, d Deps) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/categories/:id", GetResource(d.Categories, "Category"))
	app.Get("/products/:id", GetResource(d.Products, "Product"))
	app.Get("/services", ListResources(d.Services))
	app.Get("/services/:id", GetResource(d.Services, "Service"))

	// Optional params let an empty slug/id reach the handler and answer 400 instead of 404.
	app.Get("/pages/:slug?", GetPage(d.Pages))
	app.Put("/pages/:slug?", PutPage(d.Pages))
	app.Delete("/pages/:slug?", DeletePage(d.Pages))

	guard := d.AdminGuard
	if guard == nil {
		guard = func(c *fiber.Ctx) error { return c.Next() }
	}
	app.Get("/settings/branding", GetBranding(d.Branding))
	app.Put("/settings/branding", guard, SaveBranding(d.Branding))

	app.Post("/email-logs/resend", ResendEmail(d.EmailLogs))
	app.Get("/email-logs/:logId?", GetEmailLog(d.EmailLogs))
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Pings the database with a short timeout.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable", "")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// GetResource godoc
// @Summary Get a category, product or service by id
// @Tags catalog
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} model.Category
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /categories/{id} [get]
// @Router /products/{id} [get]
// @Router /services/{id} [get]
func GetResource[T model.Record](svc service.ResourceService[T], noun string) fiber.Handler {
	return handle("get_"+strings.ToLower(noun), func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return badRequest("INVALID_ID", "Invalid ID")
		}

		rec, err := svc.Get(c.UserContext(), id)
		if errors.Is(err, service.ErrNotFound) {
			return notFound(noun + " not found")
		}
		if err != nil {
			return err
		}
		return c.JSON(rec)
	})
}

// ListResources godoc
// @Summary List services
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Service
// @Failure 500 {object} errorPayload
// @Router /services [get]
func ListResources[T model.Record](svc service.ResourceService[T]) fiber.Handler {
	return handle("list_resources", func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
}

func pageError(err error) error {
	switch {
	case errors.Is(err, service.ErrSlugRequired):
		return badRequest("SLUG_REQUIRED", "Slug is required")
	case errors.Is(err, service.ErrInvalidSlug):
		return badRequest("INVALID_SLUG", "Invalid slug")
	case errors.Is(err, service.ErrInvalidDocument):
		return badRequest("INVALID_DOCUMENT", "Page document must be a JSON object")
	case errors.Is(err, service.ErrNotFound):
		return notFound("Page not found")
	default:
		return err
	}
}

func sendRawJSON(c *fiber.Ctx, doc json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(doc)
}

// GetPage godoc
// @Summary Get a page document
// @Tags pages
// @Produce json
// @Param slug path string true "Page slug"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /pages/{slug} [get]
func GetPage(svc service.PageService) fiber.Handler {
	return handleOpaque("get_page", func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("slug"))
		if err != nil {
			return pageError(err)
		}
		return sendRawJSON(c, doc)
	})
}

// PutPage godoc
// @Summary Create or replace a page document
// @Tags pages
// @Accept json
// @Produce json
// @Param slug path string true "Page slug"
// @Param document body object true "Page document"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /pages/{slug} [put]
func PutPage(svc service.PageService) fiber.Handler {
	return handleOpaque("put_page", func(c *fiber.Ctx) error {
		// fasthttp reuses the body buffer after the handler returns.
		body := append([]byte(nil), c.Body()...)

		doc, err := svc.Put(c.UserContext(), c.Params("slug"), body)
		if err != nil {
			return pageError(err)
		}
		return sendRawJSON(c, doc)
	})
}

// DeletePage godoc
// @Summary Delete a page document
// @Tags pages
// @Produce json
// @Param slug path string true "Page slug"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /pages/{slug} [delete]
func DeletePage(svc service.PageService) fiber.Handler {
	return handleOpaque("delete_page", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("slug")); err != nil {
			return pageError(err)
		}
		return c.JSON(fiber.Map{"message": "Page deleted successfully"})
	})
}

// GetBranding godoc
// @Summary Get branding settings
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /settings/branding [get]
func GetBranding(svc service.BrandingService) fiber.Handler {
	return handle("get_branding", func(c *fiber.Ctx) error {
		settings, err := svc.Get(c.UserContext())
		if errors.Is(err, service.ErrNotFound) {
			return notFound("Branding settings not found")
		}
		if err != nil {
			return err
		}
		return sendRawJSON(c, settings)
	})
}

// SaveBranding godoc
// @Summary Replace branding settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body object true "Settings; businessName is required"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /settings/branding [put]
func SaveBranding(svc service.BrandingService) fiber.Handler {
	return handle("save_branding", func(c *fiber.Ctx) error {
		settings, err := svc.Save(c.UserContext(), c.Body())
		switch {
		case errors.Is(err, service.ErrInvalidSettings):
			return badRequest("INVALID_SETTINGS", "Settings must be a JSON object")
		case errors.Is(err, service.ErrBusinessNameRequired):
			return badRequest("BUSINESS_NAME_REQUIRED", "Business name is required")
		case err != nil:
			return err
		}
		return c.JSON(fiber.Map{"success": true, "settings": settings})
	})
}

// GetEmailLog godoc
// @Summary Get an email log
// @Tags email
// @Produce json
// @Param logId path string true "Email log ID"
// @Success 200 {object} model.EmailLog
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /email-logs/{logId} [get]
func GetEmailLog(svc service.EmailLogService) fiber.Handler {
	return handle("get_email_log", func(c *fiber.Ctx) error {
		l, err := svc.GetLog(c.UserContext(), c.Params("logId"))
		switch {
		case errors.Is(err, service.ErrLogIDRequired):
			return badRequest("LOG_ID_REQUIRED", "Log ID is required")
		case errors.Is(err, service.ErrNotFound):
			return notFound("Email log not found")
		case err != nil:
			return err
		}
		return c.JSON(l)
	})
}

type resendRequest struct {
	LogID string `json:"logId" validate:"required"`
}

// ResendEmail godoc
// @Summary Resend a logged email
// @Tags email
// @Accept json
// @Produce json
// @Param request body resendRequest true "Log to resend"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /email-logs/resend [post]
func ResendEmail(svc service.EmailLogService) fiber.Handler {
	return handle("resend_email", func(c *fiber.Ctx) error {
		var req resendRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest("INVALID_BODY", "Request body must be a JSON object")
		}
		if err := validate.Struct(req); err != nil {
			return badRequest("LOG_ID_REQUIRED", "Log ID is required")
		}

		res, err := svc.Resend(c.UserContext(), req.LogID)
		if errors.Is(err, service.ErrLogIDRequired) {
			return badRequest("LOG_ID_REQUIRED", "Log ID is required")
		}
		if err != nil {
			return err
		}
		if !res.Success {
			msg := res.Error
			if msg == "" {
				msg = "Failed to resend email"
			}
			return badRequest("RESEND_FAILED", msg)
		}
		return c.JSON(fiber.Map{"success": true, "newLogId": res.NewLogID})
	})
}
