package http

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "storefront/pkg/errors"
)

// QueryIndex reads a non-negative integer query parameter. A missing
// parameter reports ok=false with no error.
func QueryIndex(r *http.Request, key string) (int, bool, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return 0, false, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false, apperrors.InvalidInput("invalid " + key + " parameter: " + s)
	}
	return v, true, nil
}

// FormIndex is QueryIndex for POSTed form values.
func FormIndex(r *http.Request, key string) (int, bool, error) {
	s := strings.TrimSpace(r.PostFormValue(key))
	if s == "" {
		return 0, false, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false, apperrors.InvalidInput("invalid " + key + " value: " + s)
	}
	return v, true, nil
}
