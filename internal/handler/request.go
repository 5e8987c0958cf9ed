package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"campus/internal/model"
	"campus/pkg/apierror"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a single JSON object into dst and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierror.BadRequest("request body is required", "")
		}
		return apierror.BadRequest("invalid JSON body", err.Error())
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.BadRequest("invalid request", err.Error())
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return apierror.BadRequest("validation failed", strings.Join(parts, "; "))
}

// listQuery is a query string checked against an allow-list.
// page and limit are always accepted.
type listQuery struct {
	values url.Values
	page   model.Page
}

func parseListQuery(r *http.Request, allowed ...string) (listQuery, error) {
	values := r.URL.Query()
	known := map[string]struct{}{"page": {}, "limit": {}}
	for _, key := range allowed {
		known[key] = struct{}{}
	}

	for key := range values {
		if _, ok := known[key]; !ok {
			return listQuery{}, apierror.BadRequest("unknown query parameter", key)
		}
	}

	page, err := queryInt(values, "page")
	if err != nil {
		return listQuery{}, err
	}
	limit, err := queryInt(values, "limit")
	if err != nil {
		return listQuery{}, err
	}

	return listQuery{values: values, page: model.Page{Page: page, Limit: limit}.Normalize()}, nil
}

func (q listQuery) get(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

func (q listQuery) boolPtr(key string) (*bool, error) {
	raw := q.get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apierror.BadRequest(key+" must be a boolean", raw)
	}
	return &v, nil
}

func queryInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierror.BadRequest(key+" must be a non-negative integer", raw)
	}
	return n, nil
}
