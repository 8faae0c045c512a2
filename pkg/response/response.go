package response

import (
	"encoding/json"
	"net/http"
	"time"

	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var log = logger.Nop()

// SetLogger sets the logger used for encoding failures and unexpected errors
func SetLogger(l logger.Logger) {
	log = l
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("error encoding JSON response", err, nil)
	}
}

// Success sends a successful JSON response
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a created JSON response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, statusCode int, message string, err error) {
	write(w, statusCode, ErrorResponse{
		Success:   false,
		Message:   message,
		Error:     errorString(err),
		Timestamp: time.Now(),
	})
}

func write(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Error("error encoding error response", encodeErr, nil)
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var statusByCode = map[string]int{
	customError.ErrCodeUnauthenticated:       http.StatusUnauthorized,
	customError.ErrCodeForbidden:             http.StatusForbidden,
	customError.ErrCodeValidation:            http.StatusBadRequest,
	customError.ErrCodeInvalidAmount:         http.StatusBadRequest,
	customError.ErrCodeInvalidSignature:      http.StatusBadRequest,
	customError.ErrCodeOrderMismatch:         http.StatusBadRequest,
	customError.ErrCodeNotFound:              http.StatusNotFound,
	customError.ErrCodeNoPendingFees:         http.StatusConflict,
	customError.ErrCodeFeeAlreadyPaid:        http.StatusConflict,
	customError.ErrCodeDuplicatePayment:      http.StatusConflict,
	customError.ErrCodeGenerationInProgress:  http.StatusConflict,
	customError.ErrCodePaymentExceedsBalance: http.StatusUnprocessableEntity,
	customError.ErrCodeNoEligibleStudents:    http.StatusUnprocessableEntity,
	customError.ErrCodeGatewayError:          http.StatusBadGateway,
}

// StatusFor returns the HTTP status for a business error code
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError writes err using the status of its business code. Details of
// infrastructure failures are logged and never sent to the client.
func FromError(w http.ResponseWriter, err error) {
	var be *customError.BusinessError
	if !customError.As(err, &be) {
		log.Error("unhandled error", err, nil)
		InternalServerError(w, "Internal server error", nil)
		return
	}

	status := StatusFor(be.Code)
	if status >= http.StatusInternalServerError {
		log.Error(be.Message, be.Err, logger.Fields{"code": be.Code})
	}

	write(w, status, ErrorResponse{Code: be.Code, Message: be.Message, Timestamp: time.Now()})
}

// BadRequest sends a 400 bad request response
func BadRequest(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusBadRequest, message, err)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusInternalServerError, message, err)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(w http.ResponseWriter, message string) {
	write(w, http.StatusUnauthorized, ErrorResponse{
		Code:      customError.ErrCodeUnauthenticated,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response recorder to capture the status code
			recorder := &responseRecorder{ResponseWriter: w, statusCode: 200}

			next.ServeHTTP(recorder, r)

			l.Info("request", logger.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   recorder.statusCode,
				"duration": time.Since(start).String(),
			})
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
