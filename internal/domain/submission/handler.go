package submission

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/clearclaim/clearclaim/internal/platform/auth"
	"github.com/clearclaim/clearclaim/internal/platform/x12"
	"github.com/clearclaim/clearclaim/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "billing"))
	g.POST("/submissions", h.CreateSubmission)
	g.GET("/submissions", h.ListSubmissions)
	g.GET("/submissions/:id", h.GetSubmission)
	g.GET("/submissions/:id/content", h.GetSubmissionContent)
	g.POST("/validate", h.ValidateClaim)
}

func (h *Handler) CreateSubmission(c echo.Context) error {
	var req ClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sub, err := h.svc.Submit(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if sub.Status == StatusRejected {
		return c.JSON(http.StatusUnprocessableEntity, sub)
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *Handler) ListSubmissions(c echo.Context) error {
	p := pagination.FromContext(c)
	subs, total, err := h.svc.List(c.Request().Context(), c.QueryParam("claim_id"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if subs == nil {
		subs = []*Submission{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(subs, total, p.Limit, p.Offset))
}

func (h *Handler) GetSubmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sub, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "submission not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sub)
}

// GetSubmissionContent returns the raw interchange as text/plain. With
// ?format=wire the content is collapsed to a single line, segments
// separated only by the segment terminator.
func (h *Handler) GetSubmissionContent(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sub, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "submission not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if sub.Status != StatusGenerated {
		return echo.NewHTTPError(http.StatusConflict, "submission has no generated content")
	}
	content := sub.EDIContent
	if c.QueryParam("format") == "wire" {
		content = x12.Wire(content)
	}
	return c.String(http.StatusOK, content)
}

func (h *Handler) ValidateClaim(c echo.Context) error {
	var req ClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	findings := h.svc.Validate(&req)
	return c.JSON(http.StatusOK, map[string]any{
		"valid":    !x12.HasErrors(findings),
		"findings": findings,
	})
}
