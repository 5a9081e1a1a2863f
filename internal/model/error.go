package model

// APIError is the uniform failure payload returned to clients.
// Code mirrors the HTTP status so JavaScript consumers can branch
// on the body without inspecting response metadata.
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
