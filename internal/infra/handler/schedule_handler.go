package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiara-stack/tiara-stack/internal/app"
	"github.com/tiara-stack/tiara-stack/internal/domain"
)

type ScheduleHandler struct {
	useCase app.ScheduleUseCase
}

func NewScheduleHandler(useCase app.ScheduleUseCase) *ScheduleHandler {
	return &ScheduleHandler{
		useCase: useCase,
	}
}

func (h *ScheduleHandler) GetCalendarDays(c *gin.Context) {
	slog.Info("handling get calendar days request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	var req GetCalendarDaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Field:   "",
		})

		return
	}

	input := app.GetCalendarDaysInput{
		Month: req.Month,
		Zone:  req.Zone,
	}

	output, err := h.useCase.GetCalendarDays(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("calendar days built successfully",
		"month", req.Month,
		"count", len(output.Days),
	)
	c.JSON(http.StatusOK, FromCalendarDaysDTO(output))
}

func (h *ScheduleHandler) GetScheduledDays(c *gin.Context) {
	communityID := c.Param("communityId")

	slog.Info("handling get scheduled days request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"community_id", communityID,
	)

	var req GetScheduledDaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Field:   "",
		})

		return
	}

	input := app.GetScheduledDayKeysInput{
		CommunityID:  communityID,
		Channel:      req.Channel,
		Zone:         req.Zone,
		RangeStartMs: *req.RangeStart,
		RangeEndMs:   *req.RangeEnd,
	}

	output, err := h.useCase.GetScheduledDayKeys(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("scheduled days derived successfully",
		"community_id", communityID,
		"channel", req.Channel,
		"count", output.Count,
	)
	c.JSON(http.StatusOK, FromScheduledDaysDTO(output))
}

func (h *ScheduleHandler) GetChannels(c *gin.Context) {
	communityID := c.Param("communityId")

	slog.Info("handling get channels request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"community_id", communityID,
	)

	input := app.GetDistinctChannelsInput{
		CommunityID: communityID,
	}

	output, err := h.useCase.GetDistinctChannels(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("channels derived successfully",
		"community_id", communityID,
		"count", output.Count,
	)
	c.JSON(http.StatusOK, FromChannelsDTO(output))
}

func (h *ScheduleHandler) GetDaySchedule(c *gin.Context) {
	communityID := c.Param("communityId")

	slog.Info("handling get day schedule request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"community_id", communityID,
	)

	var req GetDayScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Field:   "",
		})

		return
	}

	input := app.GetDayScheduleInput{
		CommunityID: communityID,
		Channel:     req.Channel,
		Date:        req.Date,
		Zone:        req.Zone,
	}

	output, err := h.useCase.GetDaySchedule(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("day schedule derived successfully",
		"community_id", communityID,
		"date", req.Date,
		"hours", len(output.Hours),
	)
	c.JSON(http.StatusOK, FromDayScheduleDTO(output))
}

func (h *ScheduleHandler) InvalidateIdentity(c *gin.Context) {
	slog.Info("handling identity invalidation request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	h.useCase.InvalidateIdentity()

	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) handleError(c *gin.Context, err error) {
	var validationErr *app.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})

		return
	}

	if errors.Is(err, app.ErrNotFound) || errors.Is(err, domain.ErrMissingAnchor) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
			Field:   "",
		})

		return
	}

	if errors.Is(err, domain.ErrUpstreamFetch) {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "failed to fetch from the sheet service",
			Field:   "",
		})

		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
		Field:   "",
	})
}

func (h *ScheduleHandler) RegisterRoutes(router *gin.RouterGroup) {
	communities := router.Group("/communities/:communityId")
	{
		communities.GET("/calendar", h.GetCalendarDays)
		communities.GET("/scheduled-days", h.GetScheduledDays)
		communities.GET("/channels", h.GetChannels)
		communities.GET("/day-schedule", h.GetDaySchedule)
	}

	invalidations := router.Group("/invalidations")
	{
		invalidations.POST("/identity", h.InvalidateIdentity)
	}
}
