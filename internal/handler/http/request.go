package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.Debug("failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request body", map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// principal returns the authenticated caller or writes 401.
func principal(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	p, ok := middleware.Principal(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return user.Principal{}, false
	}
	return p, true
}

// queryDates parses optional YYYY-MM-DD query parameters into errs.
func queryDates(r *http.Request, errs *validator.ValidationErrors, keys ...string) []clock.Date {
	out := make([]clock.Date, len(keys))
	for i, key := range keys {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		d, ok := validator.IsValidDate(raw)
		if !ok {
			errs.Add(key, key+" must be in YYYY-MM-DD format")
			continue
		}
		out[i] = d
	}
	return out
}

func queryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryList(r *http.Request, key string) []string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// scopeEmployee narrows a query to the caller unless the caller may see everyone.
// It returns false and writes 403 when an employee asks for someone else.
func scopeEmployee(w http.ResponseWriter, p user.Principal, requested *string, viewAll user.Permission) (*string, bool) {
	if user.HasPermission(p.Role, viewAll) {
		return requested, true
	}
	if requested != nil && *requested != p.EmployeeID {
		response.HandleError(w, user.ErrOtherEmployee)
		return nil, false
	}
	own := p.EmployeeID
	return &own, true
}
