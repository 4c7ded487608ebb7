package types

// StatusResponse is the {status, message} envelope.
type StatusResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Fixed messages returned by the VPN and relay endpoints. Clients match on
// these strings, so they must not change.
const (
	MessageProtected     = "You are protected by PIA."
	MessageExposed       = "Your IP is exposed and not protected by PIA."
	MessageVPNFailed     = "Failed to establish VPN connection."
	MessageInvalidTarget = "Invalid or missing Target-Domain."
)

// Messages for errors with no fixed wording.
const (
	MessageInvalidJSON      = "Request body must be valid JSON."
	MessageBodyTooLarge     = "Request body exceeds the maximum allowed size."
	MessageMethodNotAllowed = "Method not allowed."
	MessageInternalError    = "An internal error occurred. Please try again later."
)

// NewSuccess creates a success envelope.
func NewSuccess(message string) *StatusResponse {
	return &StatusResponse{Status: StatusSuccess, Message: message}
}

// NewError creates an error envelope.
func NewError(message string) *StatusResponse {
	return &StatusResponse{Status: StatusError, Message: message}
}
