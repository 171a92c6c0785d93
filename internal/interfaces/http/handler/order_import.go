package handler

import (
	"errors"
	"io"
	"net/http"

	bookingapp "github.com/agentdesk/backend/internal/application/booking"
	"github.com/agentdesk/backend/internal/infrastructure/config"
	csvimport "github.com/agentdesk/backend/internal/infrastructure/import"
	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Column layout of the order import sheet
var orderImportHeaders = []string{
	"agent_code",
	"hotel_name",
	"room_type_name",
	"check_in",
	"check_out",
	"room_count",
	"unit_price",
}

// OrderImportHandler handles bulk order import from uploaded CSV files
type OrderImportHandler struct {
	BaseHandler
	importService *bookingapp.OrderImportService
	cfg           config.ImportConfig
}

// NewOrderImportHandler creates a new OrderImportHandler
func NewOrderImportHandler(importService *bookingapp.OrderImportService, cfg config.ImportConfig) *OrderImportHandler {
	return &OrderImportHandler{importService: importService, cfg: cfg}
}

// RegisterRoutes registers order import routes
func (h *OrderImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/import", h.Import)
}

// Import parses an uploaded CSV and imports its rows as orders. Bad rows are
// skipped and reported, never fatal to the batch.
func (h *OrderImportHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if h.cfg.MaxFileSize > 0 && header.Size > h.cfg.MaxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds the maximum import size")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	rows, err := h.parseRows(data)
	if err != nil {
		h.handleParseError(c, err)
		return
	}

	result, err := h.importService.ImportOrders(c.Request.Context(), rows, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *OrderImportHandler) parseRows(data []byte) ([]bookingapp.ImportOrderRow, error) {
	parser, err := csvimport.ParseFromBytes(data, csvimport.WithMaxRows(h.cfg.MaxRows))
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if err := parser.RequireHeaders(orderImportHeaders...); err != nil {
		return nil, err
	}

	csvRows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}

	rows := make([]bookingapp.ImportOrderRow, 0, len(csvRows))
	for _, row := range csvRows {
		rows = append(rows, bookingapp.ImportOrderRow{
			LineNumber:   row.LineNumber,
			AgentCode:    row.Get("agent_code"),
			HotelName:    row.Get("hotel_name"),
			RoomTypeName: row.Get("room_type_name"),
			CheckIn:      row.Get("check_in"),
			CheckOut:     row.Get("check_out"),
			RoomCount:    row.Get("room_count"),
			UnitPrice:    row.Get("unit_price"),
			Remark:       row.Get("remark"),
		})
	}
	return rows, nil
}

func (h *OrderImportHandler) handleParseError(c *gin.Context, err error) {
	var headerErr *csvimport.HeaderError
	switch {
	case errors.As(err, &headerErr):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, headerErr.Error())
	case errors.Is(err, csvimport.ErrEmptyFile),
		errors.Is(err, csvimport.ErrMissingHeader),
		errors.Is(err, csvimport.ErrNoDataRows):
		h.BadRequest(c, err.Error())
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, err.Error())
	case errors.Is(err, csvimport.ErrTooManyRows):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, err.Error())
	default:
		h.BadRequest(c, err.Error())
	}
}
