package wasteapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is returned for any response whose status is outside 2xx.
// Transport failures are not wrapped in it.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Detail is the server's "detail" text, empty when the body had none.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("wasteapi: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// ErrorResponse is the error body shape: {"detail": "..."}.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail extracts the detail text from an error body. FastAPI request
// validation failures carry a list of issues instead of a string.
func parseDetail(body []byte) string {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		return resp.Detail
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var issues []validationIssue
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil && len(issues) > 0 {
		parts := make([]string, 0, len(issues))
		for _, issue := range issues {
			if len(issue.Loc) == 0 {
				parts = append(parts, issue.Msg)
				continue
			}
			loc := make([]string, 0, len(issue.Loc))
			for _, l := range issue.Loc {
				loc = append(loc, fmt.Sprint(l))
			}
			parts = append(parts, strings.Join(loc, ".")+": "+issue.Msg)
		}
		return strings.Join(parts, "; ")
	}

	return string(envelope.Detail)
}
