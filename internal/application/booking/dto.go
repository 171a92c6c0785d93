package booking

import (
	"time"

	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/google/uuid"
)

// DateLayout is the wire format for stay dates
const DateLayout = "2006-01-02"

// CreateOrderRequest represents a request to create an order with inventory
// reservation. Exactly one of UnitIDs (an ordered list partitioned across the
// stay span) or DailySelections (explicit per-date unit ids, keyed by
// DateLayout) must be provided.
type CreateOrderRequest struct {
	AgentID         uuid.UUID              `json:"agent_id" binding:"required"`
	HotelID         uuid.UUID              `json:"hotel_id" binding:"required"`
	RoomTypeID      uuid.UUID              `json:"room_type_id" binding:"required"`
	CheckIn         string                 `json:"check_in" binding:"required"`
	CheckOut        string                 `json:"check_out" binding:"required"`
	RoomCount       int                    `json:"room_count" binding:"required,min=1"`
	UnitIDs         []uuid.UUID            `json:"unit_ids,omitempty"`
	DailySelections map[string][]uuid.UUID `json:"daily_selections,omitempty"`
	Remark          string                 `json:"remark,omitempty"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	AgentID     *uuid.UUID `form:"agent_id"`
	Status      string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELED CLOSED"`
	Source      string     `form:"source" binding:"omitempty,oneof=MANUAL_INPUT EXCEL_IMPORT"`
	AuditStatus string     `form:"audit_status" binding:"omitempty,oneof=PENDING APPROVED RISK_REVIEW"`
	Search      string     `form:"search"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ChangeContractRequest switches an order item to a different hotel contract
type ChangeContractRequest struct {
	ContractID uuid.UUID `json:"contract_id" binding:"required"`
	Reason     string    `json:"reason" binding:"required"`
}

// CancelOrderRequest carries the mandatory cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	HotelID         uuid.UUID  `json:"hotel_id"`
	RoomTypeID      uuid.UUID  `json:"room_type_id"`
	InventoryUnitID *uuid.UUID `json:"inventory_unit_id,omitempty"`
	ContractID      uuid.UUID  `json:"contract_id"`
	CheckIn         string     `json:"check_in"`
	CheckOut        string     `json:"check_out"`
	Nights          int        `json:"nights"`
	RoomCount       int        `json:"room_count"`
	UnitPrice       string     `json:"unit_price"`
	CostPrice       string     `json:"cost_price"`
	Amount          string     `json:"amount"`
	Profit          string     `json:"profit"`
	Status          string     `json:"status"`
}

// ChangeEntryResponse represents one change log entry in API responses
type ChangeEntryResponse struct {
	Seq        int               `json:"seq"`
	Type       string            `json:"type"`
	Changes    map[string]string `json:"changes,omitempty"`
	OperatorID uuid.UUID         `json:"operator_id"`
	CreatedAt  time.Time         `json:"created_at"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           uuid.UUID             `json:"id"`
	OrderNumber  string                `json:"order_number"`
	AgentID      uuid.UUID             `json:"agent_id"`
	TotalAmount  string                `json:"total_amount"`
	Currency     string                `json:"currency"`
	Status       string                `json:"status"`
	Source       string                `json:"source"`
	AuditStatus  string                `json:"audit_status"`
	CancelReason string                `json:"cancel_reason,omitempty"`
	CanceledAt   *time.Time            `json:"canceled_at,omitempty"`
	Remark       string                `json:"remark,omitempty"`
	Items        []OrderItemResponse   `json:"items"`
	ChangeLog    []ChangeEntryResponse `json:"change_log,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// ImportResult summarizes one CSV import run
type ImportResult struct {
	TotalRows   int      `json:"total_rows"`
	Imported    int      `json:"imported"`
	Skipped     int      `json:"skipped"`
	SkipReasons []string `json:"skip_reasons,omitempty"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(order *booking.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		AgentID:      order.AgentID,
		TotalAmount:  order.TotalAmount.StringFixed(2),
		Currency:     string(order.TotalAmount.Currency()),
		Status:       string(order.Status),
		Source:       string(order.Source),
		AuditStatus:  string(order.AuditStatus),
		CancelReason: order.CancelReason,
		CanceledAt:   order.CanceledAt,
		Remark:       order.Remark,
		Items:        make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		Version:      order.Version,
	}
	for idx := range order.Items {
		resp.Items = append(resp.Items, toOrderItemResponse(&order.Items[idx]))
	}
	for _, entry := range order.ChangeLog {
		resp.ChangeLog = append(resp.ChangeLog, ChangeEntryResponse{
			Seq:        entry.Seq,
			Type:       string(entry.Type),
			Changes:    entry.Changes,
			OperatorID: entry.OperatorID,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}

func toOrderItemResponse(item *booking.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:              item.ID,
		HotelID:         item.HotelID,
		RoomTypeID:      item.RoomTypeID,
		InventoryUnitID: item.InventoryUnitID,
		ContractID:      item.ContractID,
		CheckIn:         item.CheckIn.Format(DateLayout),
		CheckOut:        item.CheckOut.Format(DateLayout),
		Nights:          item.Nights,
		RoomCount:       item.RoomCount,
		UnitPrice:       item.UnitPrice.StringFixed(2),
		CostPrice:       item.CostPrice.StringFixed(2),
		Amount:          item.Amount.StringFixed(2),
		Profit:          item.Profit.StringFixed(2),
		Status:          string(item.Status),
	}
}
