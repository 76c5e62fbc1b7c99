package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ledgercheck/finhealth/pkg/adapters"
	"github.com/ledgercheck/finhealth/pkg/models/api"
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	analysisservice "github.com/ledgercheck/finhealth/pkg/services/analysis"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"

	defaultMaxUploadBytes = 10 << 20 // 10 MiB
	statusSuccess         = "success"
)

type Handler struct {
	analysis       analysisservice.Service
	facade         *presentation.Facade
	validate       *validator.Validate
	maxUploadBytes int64
}

func NewHandler(svc analysisservice.Service, facade *presentation.Facade, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		analysis:       svc,
		facade:         facade,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, api.HealthResponse{Status: "healthy"})
}

func (h *Handler) ManualEntry(w http.ResponseWriter, r *http.Request) {
	var req api.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	in := adapters.MapManualEntryApiToDomain(req)
	asOf, err := parseDate(req.AsOf)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in.AsOf = asOf

	result, err := h.analysis.AnalyzeManual(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResult(w, r, result)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		h.writeTooLarge(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeTooLarge(w, r)
			return
		}
		h.writeError(w, r, fmt.Errorf("%w: cannot read upload: %v", domain.ErrInvalidInput, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: missing file field: %v", domain.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: cannot read upload: %v", domain.ErrInvalidInput, err))
		return
	}

	asOf, err := parseDate(r.FormValue("as_of"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Debug().
		Str("filename", header.Filename).
		Int("bytes", len(data)).
		Msg("Received statement upload")

	result, err := h.analysis.AnalyzeStatement(r.Context(), header.Filename, data, asOf)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResult(w, r, result)
}

func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	revenue, err := parseAmount("revenue", q.Get("revenue"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	expenses, err := parseAmount("expenses", q.Get("expenses"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	asOf, err := parseDate(q.Get("as_of"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ledger, err := h.analysis.Ledger(r.Context(), revenue, expenses, asOf)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapTaxLedgerDomainToApi(&ledger))
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidInput))
			return
		}
		limit = n
	}

	records, err := h.analysis.ListHistory(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := make([]api.HistoryItem, 0, len(records))
	for _, rec := range records {
		response = append(response, adapters.MapHistoryDomainToApi(rec))
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sum, record, err := h.analysis.Reconstruct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.summaryResponse(r, sum)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, api.ReportResponse{
		Record:           adapters.MapHistoryDomainToApi(record),
		FinancialSummary: out,
	})
}

func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, result *analysisservice.Result) {
	out, err := h.summaryResponse(r, result.Summary)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := api.AnalysisResponse{
		Status:           statusSuccess,
		Method:           result.Method,
		RecordID:         result.Record.ID,
		FinancialSummary: out,
	}
	if result.Statement != nil {
		response.Filename = result.Statement.Filename
		response.RowsProcessed = result.Statement.Rows
		response.Columns = result.Statement.Columns
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

// summaryResponse maps a summary and attaches the display block when currency or lang is requested.
func (h *Handler) summaryResponse(r *http.Request, sum domain.FinancialSummary) (api.FinancialSummary, error) {
	out := adapters.MapSummaryDomainToApi(sum)

	q := r.URL.Query()
	currency, lang := q.Get("currency"), q.Get("lang")
	if h.facade == nil || (currency == "" && lang == "") {
		return out, nil
	}

	display, err := h.facade.Present(sum, currency, lang)
	if err != nil {
		return api.FinancialSummary{}, err
	}
	out.Display = adapters.MapDisplayToApi(display)
	return out, nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())
	kind := domain.KindOf(err)

	status := statusFor(kind)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
		message = "internal error"
	} else {
		logger.Debug().Err(err).Str("kind", string(kind)).Msg("Request rejected")
	}

	h.writeJSON(w, r, status, api.ErrorResponse{Error: message, Kind: string(kind)})
}

func (h *Handler) writeTooLarge(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusRequestEntityTooLarge, api.ErrorResponse{
		Error: fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes),
		Kind:  string(domain.KindInvalidInput),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindIncompleteRecord:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseDate returns the zero time for an empty value so the service picks its own clock.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: as_of must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return t, nil
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a number", domain.ErrInvalidInput, name)
	}
	return d, nil
}
