package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// SummaryService interface for the service
type SummaryService interface {
	ParseDate(value string) (time.Time, error)
	Summary(ctx context.Context, date time.Time) ([]domain.SummaryRow, error)
	RebuildSummary(ctx context.Context, date time.Time) ([]domain.SummaryRow, error)
}

type SummaryHandler struct {
	service SummaryService
}

func NewSummaryHandler(service SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// SummaryRowResponse mirrors one line of the summary table
type SummaryRowResponse struct {
	Name        string `json:"name"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	WorkingTime string `json:"working_time"`
}

// SummaryResponse response for summary endpoints
type SummaryResponse struct {
	Date string               `json:"date"`
	Rows []SummaryRowResponse `json:"rows"`
}

// Get GET /summary?date=YYYY-MM-DD - stored rows of a day, today by default
func (h *SummaryHandler) Get(c *fiber.Ctx) error {
	date, err := h.service.ParseDate(c.Query("date"))
	if err != nil {
		return err
	}

	rows, err := h.service.Summary(c.Context(), date)
	if err != nil {
		return err
	}

	return c.JSON(toSummaryResponse(date, rows))
}

// Rebuild POST /summary/rebuild?date=YYYY-MM-DD - re-aggregate a day from the attendance log
func (h *SummaryHandler) Rebuild(c *fiber.Ctx) error {
	date, err := h.service.ParseDate(c.Query("date"))
	if err != nil {
		return err
	}

	rows, err := h.service.RebuildSummary(c.Context(), date)
	if err != nil {
		return err
	}

	return c.JSON(toSummaryResponse(date, rows))
}

func toSummaryResponse(date time.Time, rows []domain.SummaryRow) SummaryResponse {
	out := make([]SummaryRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, SummaryRowResponse{
			Name:        r.Name,
			CheckIn:     r.CheckIn.Format(domain.TimestampLayout),
			CheckOut:    r.CheckOut.Format(domain.TimestampLayout),
			WorkingTime: r.WorkingTime,
		})
	}
	return SummaryResponse{
		Date: date.Format(domain.DateLayout),
		Rows: out,
	}
}
