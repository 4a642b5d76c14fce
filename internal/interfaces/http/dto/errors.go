package dto

import "net/http"

// Error code constants, format ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeBusinessRule         = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock    = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInsufficientLayers   = "ERR_INSUFFICIENT_LAYERS"
	ErrCodePalletMismatch       = "ERR_PALLET_QUANTITY_MISMATCH"
	ErrCodeMissingAccountConfig = "ERR_MISSING_ACCOUNT_CONFIG"
	ErrCodeOverlappingPriceList = "ERR_OVERLAPPING_PRICE_LIST"
	ErrCodeUnbalancedJournal    = "ERR_UNBALANCED_JOURNAL"
	ErrCodeNoPrice              = "ERR_NO_PRICE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule violations are well-formed requests the domain refuses
	ErrCodeBusinessRule:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodeInsufficientLayers:   http.StatusUnprocessableEntity,
	ErrCodePalletMismatch:       http.StatusUnprocessableEntity,
	ErrCodeMissingAccountConfig: http.StatusUnprocessableEntity,
	ErrCodeOverlappingPriceList: http.StatusConflict,
	ErrCodeUnbalancedJournal:    http.StatusUnprocessableEntity,
	ErrCodeNoPrice:              http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting
// to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to transport codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"INVALID_INPUT":            ErrCodeInvalidInput,
	"INVALID_QUANTITY":         ErrCodeInvalidInput,
	"INVALID_DATE_RANGE":       ErrCodeInvalidInput,
	"INVALID_TRANSFER":         ErrCodeInvalidInput,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":       ErrCodeInsufficientStock,
	"INSUFFICIENT_LAYERS":      ErrCodeInsufficientLayers,
	"PALLET_QUANTITY_MISMATCH": ErrCodePalletMismatch,
	"MISSING_ACCOUNT_CONFIG":   ErrCodeMissingAccountConfig,
	"OVERLAPPING_PRICE_LIST":   ErrCodeOverlappingPriceList,
	"UNBALANCED_JOURNAL":       ErrCodeUnbalancedJournal,
	"NO_PRICE":                 ErrCodeNoPrice,
	"INTERNAL_ERROR":           ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the transport
// format, passing through codes it does not know
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
