package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dvloznov/school-marketplace/internal/activity"
	"github.com/dvloznov/school-marketplace/internal/api/middleware"
	"github.com/rs/zerolog"
)

// MaxBodyBytes bounds the payload accepted by NormalizeTransactions.
const MaxBodyBytes = 1 << 20

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	source     activity.Source
	normalizer *activity.Normalizer
	log        zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(source activity.Source, normalizer *activity.Normalizer, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		source:     source,
		normalizer: normalizer,
		log:        log,
	}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters
	query := r.URL.Query()
	filter := activity.Filter{
		Type:   activity.TransactionType(query.Get("type")),
		Status: activity.Status(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	records, err := h.source.ListRecords(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	// Return array directly for frontend compatibility
	middleware.WriteJSON(w, http.StatusOK, h.normalizer.NormalizeAll(records))
}

// NormalizeTransactions handles POST /api/transactions/normalize
// The body may be any JSON value; anything but an array yields [].
func (h *TransactionsHandler) NormalizeTransactions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.log.Warn().Err(err).Msg("Failed to read request body")
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	rows, issues, err := h.normalizer.NormalizeJSON(body)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	for _, issue := range issues {
		h.log.Warn().
			Str("request_id", requestID).
			Int("index", issue.Index).
			Str("field", issue.Field).
			Str("got", issue.Got).
			Msg("Ignored malformed field")
	}

	middleware.WriteJSON(w, http.StatusOK, rows)
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Routes registers the API endpoints on a new mux.
func Routes(transactions *TransactionsHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Transactions endpoints
	mux.Handle("/api/transactions", middleware.Methods(transactions.ListTransactions, http.MethodGet))
	mux.Handle("/api/transactions/normalize", middleware.Methods(transactions.NormalizeTransactions, http.MethodPost))

	// Health check endpoint
	mux.Handle("/health", middleware.Methods(Health, http.MethodGet))

	return mux
}
