package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrInvalidParams  = 1001

	// Investigation errors (2000-2999)
	ErrInvestigationNotFound = 2000
	ErrInvalidTarget         = 2001
	ErrNoResults             = 2002
	ErrInvalidFilter         = 2003
	ErrInvalidResult         = 2004

	// Search errors (3000-3999)
	ErrSearchProviderFailed = 3000
	ErrSearchNoProviders    = 3001
	ErrSearchInvalidQuery   = 3002

	// Export errors (4000-4999)
	ErrExportWriteFailed        = 4000
	ErrExportStorageUnavailable = 4001
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:  {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},

	// Investigation errors
	ErrInvestigationNotFound: {ErrInvestigationNotFound, http.StatusNotFound, "Investigation not found"},
	ErrInvalidTarget:         {ErrInvalidTarget, http.StatusBadRequest, "Invalid investigation target"},
	ErrNoResults:             {ErrNoResults, http.StatusNotFound, "Investigation has no results"},
	ErrInvalidFilter:         {ErrInvalidFilter, http.StatusBadRequest, "Invalid filter"},
	ErrInvalidResult:         {ErrInvalidResult, http.StatusBadRequest, "Invalid search result"},

	// Search errors
	ErrSearchProviderFailed: {ErrSearchProviderFailed, http.StatusBadGateway, "Search providers failed"},
	ErrSearchNoProviders:    {ErrSearchNoProviders, http.StatusServiceUnavailable, "No search providers configured"},
	ErrSearchInvalidQuery:   {ErrSearchInvalidQuery, http.StatusBadRequest, "Invalid search query"},

	// Export errors
	ErrExportWriteFailed:        {ErrExportWriteFailed, http.StatusInternalServerError, "Export write failed"},
	ErrExportStorageUnavailable: {ErrExportStorageUnavailable, http.StatusServiceUnavailable, "Export storage unavailable"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
