package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sakif/exercise-tracker/internal/apperror"
)

// maxBodyBytes caps request bodies for both form and JSON input.
const maxBodyBytes = 1 << 20

// readInput returns the request's fields as url.Values.
//
// HTML forms post application/x-www-form-urlencoded, API clients often send
// JSON. Both end up as the same flat string map so the handlers stay
// oblivious to the encoding. JSON numbers keep their literal text, so
// {"duration": 30} and duration=30 read the same.
func readInput(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSON(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, apperror.ValidationFailed("body", "invalid form body")
		}
		return r.Form, nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, apperror.ValidationFailed("body", "invalid form body")
		}
		return r.Form, nil
	}
}

func readJSON(r *http.Request) (url.Values, error) {
	var body map[string]json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		return nil, apperror.ValidationFailed("body", "invalid JSON body")
	}

	values := url.Values{}
	for key, raw := range body {
		s, err := rawString(raw)
		if err != nil {
			return nil, apperror.ValidationFailed(key, fmt.Sprintf("%s must be a string or number", key))
		}
		values.Set(key, s)
	}
	return values, nil
}

// rawString accepts strings, numbers and null (read as "").
func rawString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("unsupported JSON value %s", raw)
}

// parseDuration reads the duration field. Only whole minutes are accepted.
func parseDuration(s string) (int, error) {
	if s == "" {
		return 0, apperror.ValidationFailed("duration", "duration is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperror.ValidationFailed("duration", "duration must be a whole number of minutes")
	}
	return n, nil
}
