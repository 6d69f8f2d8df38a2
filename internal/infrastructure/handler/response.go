package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
)

// maxBodyBytes caps the size of request bodies accepted by POST endpoints
const maxBodyBytes = 1 << 20

// errorStatus maps a service error to an HTTP status and a short message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrSchemaViolation):
		return http.StatusBadRequest, "Invalid transaction request"
	case errors.Is(err, entity.ErrUnknownAccount):
		return http.StatusBadRequest, "Unknown account"
	case errors.Is(err, entity.ErrInvalidAmount):
		return http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, entity.ErrInvalidAccount):
		return http.StatusBadRequest, "Invalid account"
	case errors.Is(err, entity.ErrTransactionNotFound):
		return http.StatusNotFound, "Transaction not found"
	case errors.Is(err, entity.ErrAccountNotFound):
		return http.StatusNotFound, "Account not found"
	case errors.Is(err, entity.ErrDuplicateAccountName):
		return http.StatusConflict, "Account already exists"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// sendServiceError logs the error at a level matching its status and writes the response
func sendServiceError(w http.ResponseWriter, log logger.Logger, operation string, err error, requestID string) {
	status, message := errorStatus(err)

	fields := map[string]interface{}{
		"request_id": requestID,
		"operation":  operation,
		"error":      err.Error(),
	}

	if status == http.StatusInternalServerError {
		log.Error("Unexpected error in "+operation, fields)
		sendErrorResponse(w, log, message,
			"An unexpected error occurred while processing the request", status, requestID)
		return
	}

	log.Warn(message, fields)
	sendErrorResponse(w, log, message, err.Error(), status, requestID)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// sendBodyError answers a request whose body could not be decoded
func sendBodyError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	log.Warn("Invalid request body", map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	})

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		sendErrorResponse(w, log, "Request body too large",
			fmt.Sprintf("The request body must not exceed %d bytes", tooLarge.Limit),
			http.StatusRequestEntityTooLarge, requestID)
		return
	}

	sendErrorResponse(w, log, "Invalid request body",
		"The request body could not be parsed as a JSON object", http.StatusBadRequest, requestID)
}

// parseID reads a numeric path identifier
func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("identifier must be a positive integer, got %q", raw)
	}
	return id, nil
}

// decodePayload reads a flat JSON object into a string map. Scalars keep their
// literal text, null becomes the empty string, and nested values are rejected.
func decodePayload(r io.Reader) (map[string]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: body must be a JSON object", entity.ErrSchemaViolation)
		}
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", entity.ErrSchemaViolation)
	}

	payload := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			payload[key] = v
		case json.Number:
			payload[key] = v.String()
		case bool:
			payload[key] = strconv.FormatBool(v)
		case nil:
			payload[key] = ""
		default:
			return nil, fmt.Errorf("%w: field %q must be a string", entity.ErrSchemaViolation, key)
		}
	}

	return payload, nil
}
