package billserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/bills"
	"github.com/frahmantamala/bill-tracking/internal/transport"
)

type ServiceAPI interface {
	ListBills(email string) ([]*BillRecord, error)
	CreateDraft(email, fileName string, content []byte) (*BillRecord, error)
	UpdateBill(id string, dto UpdateBillDTO) (*BillRecord, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	MaxUploadBytes int64
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		BaseHandler:    base,
		Service:        service,
		MaxUploadBytes: maxUploadBytes,
	}
}

// ListBills handles GET /bills for the authenticated identity.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	email := internal.EmailFromContext(r.Context())
	if email == "" {
		h.Logger.Error("ListBills: identity not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.Service.ListBills(email)
	if err != nil {
		h.Logger.Error("ListBills: service error", "error", err, "email", email)
		h.HandleServiceError(w, err)
		return
	}

	resp := ListBillsResponse{Bills: make([]bills.Bill, 0, len(records))}
	for _, record := range records {
		resp.Bills = append(resp.Bills, ToBill(record))
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateBill handles POST /bills: a multipart receipt upload that opens
// a draft record. Responds with the stored file location and record key.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	email := internal.EmailFromContext(r.Context())
	if email == "" {
		h.Logger.Error("CreateBill: identity not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// bound the whole body; ParseMultipartForm alone only caps in-memory
	// buffering, it does not reject an oversized file part
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Logger.Warn("CreateBill: receipt exceeds upload limit", "limit_bytes", h.MaxUploadBytes)
			h.WriteError(w, http.StatusRequestEntityTooLarge, "receipt exceeds the upload size limit")
			return
		}
		h.Logger.Error("CreateBill: invalid multipart body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Error("CreateBill: missing receipt file", "error", err)
		h.WriteError(w, http.StatusBadRequest, "missing receipt file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Error("CreateBill: reading receipt failed", "error", err)
		h.WriteError(w, http.StatusBadRequest, "unreadable receipt file")
		return
	}

	// the email form field mirrors the client payload; the token
	// identity wins when the field is absent
	if formEmail := r.FormValue("email"); formEmail != "" {
		email = formEmail
	}

	record, err := h.Service.CreateDraft(email, header.Filename, content)
	if err != nil {
		h.Logger.Error("CreateBill: service error", "error", err, "email", email)
		h.HandleServiceError(w, err)
		return
	}

	upload := bills.ReceiptUpload{
		Key:      record.ID,
		FileName: header.Filename,
	}
	if record.FileURL != nil {
		upload.FileURL = *record.FileURL
	}

	h.Logger.Info("CreateBill: draft created", "bill_id", record.ID, "email", email)
	h.WriteJSON(w, http.StatusCreated, upload)
}

// UpdateBill handles PUT /bills/{id}: the form submission completing a
// draft record.
func (h *Handler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	email := internal.EmailFromContext(r.Context())
	if email == "" {
		h.Logger.Error("UpdateBill: identity not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	billID := chi.URLParam(r, "id")
	if billID == "" {
		h.Logger.Error("UpdateBill: missing bill id")
		h.WriteError(w, http.StatusBadRequest, "missing bill id")
		return
	}

	var dto UpdateBillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateBill: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.UpdateBill(billID, dto)
	if err != nil {
		h.Logger.Error("UpdateBill: service error", "error", err, "bill_id", billID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateBill: bill updated", "bill_id", record.ID, "status", record.Status)
	h.WriteJSON(w, http.StatusOK, ToBill(record))
}
