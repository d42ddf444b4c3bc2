package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"printshop-pricing/core/types"
)

// PreviewRequest is the inline preview payload: a full shop configuration
// snapshot plus the draft to price. Used by callers that already hold the
// configuration (tests, other services).
type PreviewRequest struct {
	Shop  types.ShopConfig `json:"shop"`
	Draft types.QuoteDraft `json:"draft"`
}

// handlePreviewInline handles POST /preview
func (s *Server) handlePreviewInline(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.engine.PreviewDraft(&req.Shop, &req.Draft)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleDraftPreview handles GET /shops/{shopID}/drafts/{draftID}/preview
func (s *Server) handleDraftPreview(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, "NO_STORE", "store not connected", http.StatusServiceUnavailable)
		return
	}
	shopID, ok := s.pathID(w, r, "shopID")
	if !ok {
		return
	}
	draftID, ok := s.pathID(w, r, "draftID")
	if !ok {
		return
	}

	ctx := r.Context()
	cfg, err := s.store.LoadShopConfig(ctx, shopID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	draft, err := s.store.LoadDraft(ctx, shopID, draftID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	result, err := s.engine.PreviewDraft(cfg, draft)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handlePriceHint handles GET /shops/{shopID}/products/{productID}/price-hint
func (s *Server) handlePriceHint(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, "NO_STORE", "store not connected", http.StatusServiceUnavailable)
		return
	}
	shopID, ok := s.pathID(w, r, "shopID")
	if !ok {
		return
	}
	productID, ok := s.pathID(w, r, "productID")
	if !ok {
		return
	}

	cfg, err := s.store.LoadShopConfig(r.Context(), shopID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	hint, err := s.engine.ProductPriceHint(cfg, productID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, hint, http.StatusOK)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, "INVALID_ID", "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
