package types

// SuccessEnvelope wraps every successful API payload, storefront and
// back-office alike.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Details only carries what the error
// code's metadata allows through.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed API response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
