// Package statementupload is the HTTP boundary for statement ingestion:
// it accepts an uploaded export file, runs detection and extraction, and
// commits the result to the user's ledger through the dedup engine.
package statementupload

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finlens-dev/finlens/internal/ledger"
	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/registry"
)

type Handler struct {
	registry  *registry.Registry
	ledgerSvc *ledger.Service
	maxBytes  int64
}

func NewHandler(reg *registry.Registry, ledgerSvc *ledger.Service, maxBytes int64) *Handler {
	return &Handler{
		registry:  reg,
		ledgerSvc: ledgerSvc,
		maxBytes:  maxBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/banks", h.listBanks)
}

type detectionDTO struct {
	Bank          string `json:"bank"`
	ConfidencePct int    `json:"confidence_pct"`
	Parser        string `json:"parser"`
	Reason        string `json:"reason"`
}

type transactionDTO struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Balance     string `json:"balance,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

type uploadResponse struct {
	BankName     string           `json:"bank_name,omitempty"`
	Detection    *detectionDTO    `json:"detection,omitempty"`
	StartDate    string           `json:"start_date,omitempty"`
	EndDate      string           `json:"end_date,omitempty"`
	Transactions []transactionDTO `json:"transactions"`
	Created      int              `json:"created"`
	Skipped      int              `json:"skipped"`
}

type banksResponse struct {
	Banks      []string `json:"banks"`
	Parsers    []string `json:"parsers"`
	Extensions []string `json:"extensions"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, err := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "user_id field is required", http.StatusBadRequest)
		return
	}

	accountID, err := strconv.ParseInt(r.FormValue("account_id"), 10, 64)
	if err != nil {
		http.Error(w, "account_id field is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	if int64(len(data)) > h.maxBytes {
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	}

	opts := statement.Options{
		DateFormat: r.FormValue("date_format"),
	}
	if skip := r.FormValue("skip_rows"); skip != "" {
		opts.SkipRows, _ = strconv.Atoi(skip)
	}

	result, detection, err := h.registry.AutoParse(header.Filename, data, opts)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	params := make([]ledger.CreateParams, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		params = append(params, ledger.FromParsed(accountID, tx))
	}

	created, skipped, err := h.ledgerSvc.BulkImport(r.Context(), userID, params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := uploadResponse{
		BankName:     result.BankName,
		Transactions: make([]transactionDTO, 0, len(result.Transactions)),
		Created:      created,
		Skipped:      skipped,
	}

	if result.StartDate != nil {
		resp.StartDate = result.StartDate.Format(time.DateOnly)
	}

	if result.EndDate != nil {
		resp.EndDate = result.EndDate.Format(time.DateOnly)
	}

	if detection != nil {
		resp.Detection = &detectionDTO{
			Bank:          detection.Bank,
			ConfidencePct: int(detection.Confidence * 100),
			Parser:        detection.Parser,
			Reason:        detection.Reason,
		}
	}

	for _, tx := range result.Transactions {
		dto := transactionDTO{
			Date:        tx.Date.Format(time.DateOnly),
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Direction:   string(tx.Direction),
			Reference:   tx.Reference,
			Mode:        tx.Mode,
		}

		if tx.Balance != nil {
			dto.Balance = tx.Balance.String()
		}

		resp.Transactions = append(resp.Transactions, dto)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	resp := banksResponse{
		Banks:      h.registry.Banks(),
		Parsers:    h.registry.ParserNames(),
		Extensions: h.registry.SupportedExtensions(),
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, statement.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, statement.ErrParse):
		return http.StatusUnprocessableEntity
	}

	return http.StatusBadRequest
}
