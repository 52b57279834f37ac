package api

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/openmeteo-lite/internal/conditions"
	"github.com/bobby-s-dev/openmeteo-lite/internal/models"
	"github.com/bobby-s-dev/openmeteo-lite/internal/scheduler"
	"github.com/bobby-s-dev/openmeteo-lite/internal/services"
	"github.com/bobby-s-dev/openmeteo-lite/internal/settings"
	"github.com/bobby-s-dev/openmeteo-lite/internal/units"
)

var validate = validator.New()

var startTime = time.Now()

type Handler struct {
	weather    *services.WeatherService
	scheduler  *scheduler.Scheduler
	translator *conditions.Translator
	formats    services.DisplayFormats
	logger     *zap.Logger
}

// NewHandler wires the API. sched may be nil when no refresh schedule runs.
func NewHandler(weather *services.WeatherService, sched *scheduler.Scheduler, localizer conditions.Localizer, formats services.DisplayFormats, logger *zap.Logger) *Handler {
	return &Handler{
		weather:    weather,
		scheduler:  sched,
		translator: conditions.NewTranslator(localizer),
		formats:    formats,
		logger:     logger,
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":     "healthy",
		"timestamp":  time.Now(),
		"last_fetch": h.weather.GetLastFetchTime(),
		"uptime":     time.Since(startTime).String(),
		"stats":      h.weather.GetStats(),
	}
	if h.scheduler != nil {
		resp["scheduler"] = h.scheduler.GetStatus()
	}
	return c.JSON(resp)
}

// GetLocations handles GET /api/v1/locations
func (h *Handler) GetLocations(c *fiber.Ctx) error {
	slots := h.weather.Locations()
	if slots == nil {
		slots = []settings.Slot{}
	}
	return c.JSON(fiber.Map{"locations": slots})
}

type searchQuery struct {
	Query string `validate:"required,min=2,max=100"`
}

// SearchLocations handles GET /api/v1/locations/search?query=
func (h *Handler) SearchLocations(c *fiber.Ctx) error {
	q := searchQuery{Query: strings.TrimSpace(c.Query("query"))}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter must be 2 to 100 characters")
	}

	h.logger.Info("Searching locations", zap.String("query", q.Query))

	results, err := h.weather.SearchLocations(c.UserContext(), q.Query)
	if err != nil {
		h.logger.Error("Location search failed", zap.String("query", q.Query), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "failed to search locations")
	}

	locations := make([]fiber.Map, 0, len(results))
	for _, r := range results {
		locations = append(locations, fiber.Map{
			"result":   r,
			"location": r.Location(),
		})
	}
	return c.JSON(fiber.Map{"query": q.Query, "results": locations})
}

// PutLocation handles PUT /api/v1/locations/:id
func (h *Handler) PutLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	if !settings.ValidID(id) {
		return fiber.NewError(fiber.StatusNotFound, "unknown location id "+id)
	}

	var loc models.Location
	if err := c.BodyParser(&loc); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid location body")
	}
	if err := loc.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.weather.SetLocation(id, loc); err != nil {
		h.logger.Error("Failed to save location", zap.String("id", id), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save location")
	}
	return c.JSON(fiber.Map{"id": id, "location": loc})
}

// RefreshLocation handles POST /api/v1/weather/:id/refresh
func (h *Handler) RefreshLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.weather.PopulateLocation(c.UserContext(), id); err != nil {
		return h.weatherError(id, err)
	}

	props, err := h.weather.Properties(id)
	if err != nil {
		return h.weatherError(id, err)
	}
	return c.JSON(fiber.Map{"id": id, "properties": len(props)})
}

// RefreshAll handles POST /api/v1/weather/refresh
func (h *Handler) RefreshAll(c *fiber.Ctx) error {
	var err error
	if h.scheduler != nil {
		err = h.scheduler.RunNow(c.UserContext())
	} else {
		err = h.weather.RefreshAll(c.UserContext())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"refreshed": true})
}

// GetProperties handles GET /api/v1/weather/:id/properties
func (h *Handler) GetProperties(c *fiber.Ctx) error {
	id := c.Params("id")
	props, err := h.weather.Properties(id)
	if err != nil {
		return h.weatherError(id, err)
	}
	return c.JSON(fiber.Map{"id": id, "properties": props})
}

func (h *Handler) weatherError(id string, err error) error {
	switch {
	case errors.Is(err, settings.ErrUnknownLocation):
		return fiber.NewError(fiber.StatusNotFound, "unknown location id "+id)
	case errors.Is(err, settings.ErrLocationNotConfigured):
		return fiber.NewError(fiber.StatusConflict, id+" is not configured")
	case errors.Is(err, services.ErrNotFetched):
		return fiber.NewError(fiber.StatusNotFound, "no weather fetched for "+id)
	default:
		h.logger.Error("Weather refresh failed", zap.String("id", id), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	}
}

// GetCondition handles GET /api/v1/conditions/:code?is_day=
func (h *Handler) GetCondition(c *fiber.Ctx) error {
	n, err := strconv.Atoi(c.Params("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "code must be an integer")
	}
	isDay := c.QueryBool("is_day", true)
	code := conditions.ProviderWeatherCode(n)
	display := h.translator.DisplayCode(code, isDay)

	return c.JSON(fiber.Map{
		"code":         n,
		"is_day":       isDay,
		"known":        conditions.Known(code),
		"display_code": display,
		"icon":         display.Icon(),
		"label":        h.translator.ConditionLabel(code, isDay),
	})
}

// ConvertTemperature handles GET /api/v1/convert/temperature?celsius=&unit=
func (h *Handler) ConvertTemperature(c *fiber.Ctx) error {
	celsius, err := strconv.Atoi(c.Query("celsius"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "celsius must be an integer")
	}
	unit := h.formats.TemperatureUnit
	if raw := c.Query("unit"); raw != "" {
		unit = units.ParseTemperatureUnit(raw)
	}
	return c.JSON(fiber.Map{
		"celsius": celsius,
		"unit":    unit,
		"value":   units.FormatTemperature(celsius, unit),
	})
}

type windQuery struct {
	KMH float64 `validate:"gte=0"`
}

// ConvertWind handles GET /api/v1/convert/wind?kmh=&unit=
func (h *Handler) ConvertWind(c *fiber.Ctx) error {
	kmh, err := parseFiniteFloat(c.Query("kmh"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "kmh must be a number")
	}
	if err := validate.Struct(windQuery{KMH: kmh}); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "kmh must not be negative")
	}
	unit := h.formats.SpeedUnit
	if raw := c.Query("unit"); raw != "" {
		unit = units.ParseSpeedUnit(raw)
	}
	return c.JSON(fiber.Map{
		"kmh":      kmh,
		"unit":     unit,
		"beaufort": units.BeaufortScale(kmh),
		"value":    units.FormatWindSpeed(kmh, unit),
	})
}

// ConvertDirection handles GET /api/v1/convert/direction?degrees=
func (h *Handler) ConvertDirection(c *fiber.Ctx) error {
	degrees, err := parseFiniteFloat(c.Query("degrees"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "degrees must be a number")
	}
	return c.JSON(fiber.Map{
		"degrees":   degrees,
		"direction": units.ResolveCompassDirection(degrees),
	})
}

func parseFiniteFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// ErrorHandler renders every error as {"error": ..., "success": false}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	if code >= fiber.StatusInternalServerError {
		zap.L().Error("HTTP error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
