package errors

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "PRODUCT_NOT_FOUND"
	Message string `json:"message"`           // User-friendly error message
	Details any    `json:"details,omitempty"` // Detailed error information (optional)
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

// ErrorResponse defines the structure for error responses. Detail repeats the
// message at the top level for clients that only read {"detail": ...}.
type ErrorResponse struct {
	Detail string     `json:"detail"`
	Error  *ErrorInfo `json:"error"`
	Meta   *MetaInfo  `json:"meta,omitempty"`
}
