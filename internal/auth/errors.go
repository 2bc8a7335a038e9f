package auth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

// APIError is a rejected auth request, optionally with per-field
// validation details (signup).
type APIError struct {
	Status      int
	Message     string
	FieldErrors FieldErrors
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// parseAPIError digs the human-readable message and any field errors out
// of an error response. The service nests errors inconsistently: top-level
// "message" or "detail", with "errors" either at the root or under "data".
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for _, key := range []string{"message", "detail"} {
		var msg string
		if json.Unmarshal(raw[key], &msg) == nil && msg != "" {
			apiErr.Message = msg
			break
		}
	}

	errorsRaw := raw["errors"]
	if errorsRaw == nil {
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw["data"], &nested) == nil {
			errorsRaw = nested["errors"]
		}
	}
	if errorsRaw != nil {
		apiErr.FieldErrors = collectFieldErrors(errorsRaw)
		if msgs := flattenMessages(apiErr.FieldErrors); len(msgs) > 0 {
			if apiErr.Message != "" {
				apiErr.Message = apiErr.Message + ": " + strings.Join(msgs, "; ")
			} else {
				apiErr.Message = strings.Join(msgs, "; ")
			}
		}
	}

	return apiErr
}

func collectFieldErrors(raw json.RawMessage) FieldErrors {
	var perField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &perField); err != nil {
		return nil
	}

	out := FieldErrors{}
	for field, val := range perField {
		var many []string
		if json.Unmarshal(val, &many) == nil {
			out[field] = many
			continue
		}
		var one string
		if json.Unmarshal(val, &one) == nil {
			out[field] = []string{one}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func flattenMessages(fe FieldErrors) []string {
	var out []string
	for _, msgs := range fe {
		out = append(out, msgs...)
	}
	return out
}
