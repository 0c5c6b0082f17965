package types

// Envelope is the single response shape shared by every endpoint.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
}
