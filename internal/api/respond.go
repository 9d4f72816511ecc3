package api

import (
	"encoding/json"
	"net/http"
)

// Problem is the RFC 7807 body every error response uses. The type URI stays
// "about:blank": clients tell errors apart by status and detail, there is no
// error-type registry.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func newProblem(status int, title, detail, instance string) Problem {
	return Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, newProblem(status, title, detail, instance))
}

// writeJSON sends v as the response body. The content type must land before
// WriteHeader; encode errors after that point have nowhere to go and are
// dropped.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
