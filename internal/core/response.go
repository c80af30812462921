package core

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"kudosnotify/internal/types"
)

// maxRequestBodySize is the maximum allowed size of a request body (1 MB).
const maxRequestBodySize = 1 << 20 // 1 MB

// SuccessResponse is the body returned by handlers that report only
// completion, not a provider receipt.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body returned on any failure. The legacy contract
// exposes the error message text directly with a 500 status regardless
// of classification; error codes drive logging, not the wire status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "failed to marshal response"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONRaw writes a pre-encoded JSON body as-is. Used by the generic send
// endpoints, which pass the provider receipt through to the caller.
func JSONRaw(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// Success writes the 200 {"success":true} body.
func Success(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// Error writes the failure response and logs the error with its
// classification. It inspects the error chain: a *types.AppError
// contributes its message and code; a generic error contributes its
// Error() text with code internal_unexpected_error. Either way the wire
// response is 500 {"error": message}, preserving the legacy contract.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	message := err.Error()
	code := types.ErrCodeInternalUnexpected

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		code = appErr.Code
	}

	if logger != nil {
		logger.Error("request failed",
			"path", r.URL.Path,
			"code", string(code),
			"error", err,
			"request_id", types.GetRequestID(r.Context()),
		)
	}

	JSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: message})
}

// DecodeJSON reads the request body into dst, enforcing a 1 MB size cap.
// Unknown fields are tolerated: the legacy clients post overlapping
// payload shapes to different endpoints.
//
// Returns a *types.AppError with code validation_invalid_json on a
// syntax error, an empty body, or an oversized body.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return mapDecodeError(err)
	}
	return nil
}

// mapDecodeError translates a json.Decoder error into a structured AppError.
func mapDecodeError(err error) *types.AppError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"request body must not exceed 1MB",
			err,
		)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"malformed JSON in request body",
			err,
		)
	}

	var unmarshalTypeErr *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeErr) {
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidJSON,
			"invalid value for field",
			err,
			map[string]any{
				"field":    unmarshalTypeErr.Field,
				"expected": unmarshalTypeErr.Type.String(),
			},
		)
	}

	if errors.Is(err, io.EOF) {
		return types.NewAppError(
			types.ErrCodeValidationInvalidJSON,
			"request body must not be empty",
			err,
		)
	}

	return types.NewAppError(
		types.ErrCodeValidationInvalidJSON,
		"invalid JSON in request body",
		err,
	)
}
