package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/crm-billing/auth"
	"github.com/diewo77/crm-billing/httpx"
	"github.com/diewo77/crm-billing/internal/catalog"
	"github.com/diewo77/crm-billing/internal/document"
	"github.com/diewo77/crm-billing/internal/models"
	"github.com/diewo77/crm-billing/internal/pricing"
	"github.com/diewo77/crm-billing/internal/services"
	"github.com/diewo77/crm-billing/internal/store"
	"github.com/diewo77/crm-billing/validation"

	"gorm.io/gorm"
)

// DocumentHandler serves one document kind. Quotes and invoices share this
// handler verbatim; the kind only selects routes and the validation policy
// applied inside the lifecycle.
type DocumentHandler struct {
	DB    *gorm.DB
	Svc   *services.DocumentService
	Store *store.DocumentStore
	Kind  document.Kind
}

func NewDocumentHandler(db *gorm.DB, svc *services.DocumentService, st *store.DocumentStore, kind document.Kind) *DocumentHandler {
	return &DocumentHandler{DB: db, Svc: svc, Store: st, Kind: kind}
}

// Generate: POST /quotes/generate or /invoices/generate. Freezes a cart of
// catalog selections into a draft document and returns it for edition.
func (h *DocumentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, "POST")
		return
	}
	type itemReq struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	var req struct {
		Items []itemReq `json:"items"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	// duplicate selections of the same product merge into one cart line
	productIDs := make([]uint, 0, len(req.Items))
	seen := map[uint]bool{}
	for _, it := range req.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"items": "invalid_product_or_quantity"})
			return
		}
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			productIDs = append(productIDs, it.ProductID)
		}
	}
	sess := document.NewSession(h.Kind)
	if len(productIDs) > 0 {
		var products []models.CatalogProduct
		if err := h.DB.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_products", nil)
			return
		}
		if len(products) != len(productIDs) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_products", nil)
			return
		}
		prodByID := map[uint]models.CatalogProduct{}
		for _, p := range products {
			prodByID[p.ID] = p
		}
		for _, it := range req.Items {
			p := prodByID[it.ProductID]
			sess.Cart.Add(catalog.Product{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice})
			if it.Quantity > 1 {
				sess.Cart.SetQuantity(p.ID, sess.Cart.Quantity(p.ID)+it.Quantity-1)
			}
		}
	}
	if err := sess.Generate(time.Now()); err != nil {
		var verr *document.ValidationError
		if errors.As(err, &verr) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "generate_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"document": sess.Doc, "total_amount": sess.Doc.Total()})
}

// jsonAmount accepts a JSON number or a form-style string for a price or
// percent field. Strings coerce leniently: unparsable input becomes 0.
type jsonAmount float64

func (a *jsonAmount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = jsonAmount(pricing.Amount(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = jsonAmount(f)
	return nil
}

// jsonCount is the quantity counterpart of jsonAmount.
type jsonCount int

func (c *jsonCount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = jsonCount(pricing.Count(s))
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = jsonCount(n)
	return nil
}

// lineInput mirrors document.Line with lenient numeric fields. Total is
// accepted but ignored; it is always re-derived before persistence.
type lineInput struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Quantity        jsonCount  `json:"quantity"`
	UnitPrice       jsonAmount `json:"unit_price"`
	DiscountPercent jsonAmount `json:"discount_percent"`
	TaxPercent      jsonAmount `json:"tax_percent"`
	Total           jsonAmount `json:"total"`
}

// saveRequest mirrors document.Document for the save endpoints. Kind, status,
// id and totals from the body are discarded; the server derives them.
type saveRequest struct {
	ID            int64                  `json:"id"`
	Kind          string                 `json:"kind"`
	Status        string                 `json:"status"`
	Client        document.Client        `json:"client"`
	PaymentMethod document.PaymentMethod `json:"payment_method"`
	SendLater     bool                   `json:"send_later"`
	Terms         document.Terms         `json:"terms"`
	CreationDate  time.Time              `json:"creation_date"`
	DueDate       time.Time              `json:"due_date"`
	Lines         []lineInput            `json:"lines"`
	TotalAmount   jsonAmount             `json:"total_amount"`
}

// Save handles POST /quotes/save, /invoices/save and their /send variants.
// The request body is the edited draft document; sendNow distinguishes
// "save and send" from a plain save.
func (h *DocumentHandler) Save(sendNow bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httpx.MethodNotAllowed(w, "POST")
			return
		}
		var req saveRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		doc := document.Document{
			Kind:          h.Kind,
			Status:        document.StatusDraft,
			Client:        req.Client,
			PaymentMethod: req.PaymentMethod,
			SendLater:     req.SendLater,
			Terms:         req.Terms,
			CreationDate:  req.CreationDate,
			DueDate:       req.DueDate,
		}
		for _, l := range req.Lines {
			doc.Lines = append(doc.Lines, document.Line{
				ID:              l.ID,
				Name:            l.Name,
				Quantity:        int(l.Quantity),
				UnitPrice:       float64(l.UnitPrice),
				DiscountPercent: float64(l.DiscountPercent),
				TaxPercent:      float64(l.TaxPercent),
			})
		}
		doc.Recompute()
		if doc.PaymentMethod == "" {
			doc.PaymentMethod = document.PaymentCard
		}
		if doc.Terms == "" {
			doc.Terms = document.TermsNone
		}
		v := validation.Violations{}
		if !doc.PaymentMethod.Valid() {
			v["payment_method"] = "unknown_value"
		}
		if !doc.Terms.Valid() {
			v["terms"] = "unknown_value"
		}
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}

		sess := &document.Session{Kind: h.Kind, State: document.StateGenerated, Doc: &doc}
		uid, _ := auth.UserIDFromContext(r.Context())
		snap, err := h.Svc.Save(r.Context(), sess, uid, sendNow)
		if err != nil {
			var verr *document.ValidationError
			var perr *services.PersistenceError
			switch {
			case errors.As(err, &verr):
				httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
			case errors.As(err, &perr):
				httpx.JSONError(w, http.StatusBadGateway, "persistence_failed", nil)
			case errors.Is(err, document.ErrNotGenerated):
				httpx.JSONError(w, http.StatusBadRequest, "document_not_generated", nil)
			default:
				httpx.JSONError(w, http.StatusInternalServerError, "save_failed", nil)
			}
			return
		}
		httpx.JSON(w, http.StatusCreated, snap)
	}
}

// List: GET /quotes or /invoices, newest first.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	docs, total, err := h.Store.List(r.Context(), h.Kind, limit, offset)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_documents", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": docs, "total": total, "limit": limit, "offset": offset})
}
