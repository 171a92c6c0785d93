package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes not
// listed fall back to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// resource errors
	"NOT_FOUND":       http.StatusNotFound,
	"ITEM_NOT_FOUND":  http.StatusNotFound,
	"PROOF_NOT_FOUND": http.StatusNotFound,
	"ALREADY_EXISTS":  http.StatusConflict,

	// contention on shared state
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVENTORY_CONFLICT":   http.StatusConflict,
	"UNIT_NOT_AVAILABLE":   http.StatusConflict,
	"ALREADY_CONFIRMED":    http.StatusConflict,
	"BILL_HAS_PAYMENTS":    http.StatusConflict,

	// business rule violations
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"AGENT_NOT_ACTIVE":          http.StatusUnprocessableEntity,
	"ORDER_NOT_EDITABLE":        http.StatusUnprocessableEntity,
	"ORDER_EMPTY":               http.StatusUnprocessableEntity,
	"BILL_IMMUTABLE":            http.StatusUnprocessableEntity,
	"BILL_NOT_CONFIRMED":        http.StatusUnprocessableEntity,
	"AMOUNT_EXCEEDS_COMMISSION": http.StatusUnprocessableEntity,
	"INVENTORY_MISMATCH":        http.StatusUnprocessableEntity,
	"ROOM_TYPE_MISMATCH":        http.StatusUnprocessableEntity,

	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unmapped INVALID_/MISSING_/EMPTY_ codes are input errors; anything else
// unknown is an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") ||
		strings.HasPrefix(code, "MISSING_") ||
		strings.HasPrefix(code, "EMPTY_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
