package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Houeta/pricewatch/internal/barcode"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/Houeta/pricewatch/internal/services/catalog"
	"github.com/Houeta/pricewatch/internal/services/comparison"
	"github.com/Houeta/pricewatch/internal/services/sharing"
	"github.com/Houeta/pricewatch/internal/sharecode"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type createListRequest struct {
	Name string `json:"name"`
}

type addItemRequest struct {
	Barcode string `json:"barcode"`
}

type recordPriceRequest struct {
	Barcode      string              `json:"barcode"`
	Name         string              `json:"name"`
	StoreID      string              `json:"store_id"`
	Price        decimal.Decimal     `json:"price"`
	RegularPrice decimal.NullDecimal `json:"regular_price"`
	IsOnSale     bool                `json:"is_on_sale"`
	ObservedAt   *time.Time          `json:"observed_at,omitempty"`
}

type shareResponse struct {
	Code string `json:"code"`
}

type joinRequest struct {
	Code string `json:"code"`
}

type badgeResponse struct {
	Count int `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, badgeResponse{Count: s.badge.Unseen(userFrom(r.Context()))})
}

func (s *Server) handleBadgeSeen(w http.ResponseWriter, r *http.Request) {
	s.badge.MarkSeen(userFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object with a name")
		return
	}

	list, err := s.lists.CreateList(r.Context(), userFrom(r.Context()), req.Name)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.Lists(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if lists == nil {
		lists = []models.ShoppingList{}
	}

	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object with a barcode")
		return
	}

	product, err := s.lists.AddItem(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"], req.Barcode)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleRecordPrice(w http.ResponseWriter, r *http.Request) {
	var req recordPriceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed observation")
		return
	}

	input := catalog.PriceInput{
		Barcode:      req.Barcode,
		Name:         req.Name,
		StoreID:      req.StoreID,
		Price:        req.Price,
		RegularPrice: req.RegularPrice,
		IsOnSale:     req.IsOnSale,
	}
	if req.ObservedAt != nil {
		input.ObservedAt = *req.ObservedAt
	}

	obs, err := s.lists.RecordPrice(r.Context(), input)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, obs)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	code, err := s.sharing.Share(r.Context(), mux.Vars(r)["id"], userFrom(r.Context()))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{Code: code})
}

func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	code, err := s.sharing.Share(r.Context(), mux.Vars(r)["id"], userFrom(r.Context()))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	png, err := sharecode.QRCode(code, sharecode.DefaultQRSize)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Share-Code", code)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object with a code")
		return
	}

	if _, err := s.sharing.Redeem(r.Context(), userFrom(r.Context()), req.Code); err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	storeAID := strings.TrimSpace(query.Get("storeA"))
	storeBID := strings.TrimSpace(query.Get("storeB"))
	if storeAID == "" || storeBID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "storeA and storeB are required")
		return
	}

	refs := make([]models.StoreRef, 0, 2)
	for _, id := range []string{storeAID, storeBID} {
		store, err := s.stores.GetStore(r.Context(), id)
		if err != nil {
			s.serviceError(w, r, err)
			return
		}
		refs = append(refs, models.StoreRef{ID: store.ID, Name: store.Name})
	}

	listID := mux.Vars(r)["id"]
	result, err := s.comparison.CompareForMember(r.Context(), userFrom(r.Context()), listID, refs[0], refs[1])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// serviceError maps service errors to HTTP responses.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sharecode.ErrExpiredCode):
		writeError(w, http.StatusGone, "expired_code", "share code has expired")
	case errors.Is(err, sharecode.ErrMalformedCode):
		writeError(w, http.StatusBadRequest, "invalid_code", "share code is not valid")
	case errors.Is(err, sharing.ErrJoinFailed):
		writeError(w, http.StatusBadGateway, "join_failed", "could not join the list")
	case errors.Is(err, sharing.ErrNotMember),
		errors.Is(err, catalog.ErrNotMember),
		errors.Is(err, comparison.ErrNotMember):
		writeError(w, http.StatusForbidden, "forbidden", "not a member of the list")
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownProduct),
		errors.Is(err, catalog.ErrUnknownStore):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, barcode.ErrEmpty),
		errors.Is(err, barcode.ErrInvalidFormat),
		errors.Is(err, barcode.ErrCheckDigit),
		errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrListNameTooLong),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrFutureObservation),
		errors.Is(err, comparison.ErrInvalidRequest),
		errors.Is(err, sharecode.ErrEmptyListID):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		loggerFrom(r.Context()).ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
