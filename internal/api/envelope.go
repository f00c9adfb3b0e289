package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped only on breaking changes to the envelope shape.
const envelopeVersion = 1

// Envelope is the uniform wire format for every API response.
// Success responses carry the payload under "data"; error responses carry
// a flat code/message/details triple plus a legacy "error" string.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the Envelope format.
// Registered as a huma transformer so handlers return plain DTOs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// Never wrap twice.
	if _, ok := v.(*Envelope); ok {
		return v, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		// Non-APIError error bodies (huma's own validation output).
		msg := "request failed"
		if err, ok := v.(error); ok {
			msg = err.Error()
		}
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   msg,
			Message: msg,
		}, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
