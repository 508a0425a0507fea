package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"autobooking/internal/catalog/service"
	"autobooking/pkg/auth"
	httputil "autobooking/pkg/http"
	"autobooking/pkg/logger"
	"autobooking/pkg/middleware"
	"autobooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// UnavailableDatesProvider exposes the booked ranges of a product so the
// catalog can serve them alongside product details.
type UnavailableDatesProvider interface {
	UnavailableDates(ctx context.Context, productID string) ([]model.DateRange, error)
}

type ProductHandler struct {
	service      service.ProductService
	availability UnavailableDatesProvider
	issuer       *auth.TokenIssuer
	log          *logger.Logger
}

func NewProductHandler(
	productService service.ProductService,
	availability UnavailableDatesProvider,
	issuer *auth.TokenIssuer,
	log *logger.Logger,
) *ProductHandler {
	return &ProductHandler{
		service:      productService,
		availability: availability,
		issuer:       issuer,
		log:          log,
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeJSON(w, "Create", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &product); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, product); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	product, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, product); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, products); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "error", err)
	}
}

func (h *ProductHandler) GetByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	products, err := h.service.GetByCategory(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByCategory", err)
		return
	}

	if err := httputil.WriteSuccess(w, products); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByCategory", "error", err)
	}
}

// Search answers availability queries: optional category filter plus an
// optional start/end date pair.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	result, err := h.service.Search(
		r.Context(),
		query.Get("start_date"),
		query.Get("end_date"),
		query.Get("category_id"),
	)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "error", err)
	}
}

func (h *ProductHandler) UnavailableDates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// Ensure the product exists so a bogus ID yields 404 instead of an
	// empty list.
	if _, err := h.service.GetByID(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "UnavailableDates", err)
		return
	}

	ranges, err := h.availability.UnavailableDates(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "UnavailableDates", err)
		return
	}

	if err := httputil.WriteSuccess(w, ranges); err != nil {
		h.log.Error("failed to write success response", "handler", "UnavailableDates", "error", err)
	}
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ProductHandler) AddFeature(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	product, err := h.service.AddFeature(r.Context(), ps.ByName("id"), ps.ByName("featureId"))
	if err != nil {
		h.writeError(w, "AddFeature", err)
		return
	}

	if err := httputil.WriteSuccess(w, product); err != nil {
		h.log.Error("failed to write success response", "handler", "AddFeature", "error", err)
	}
}

func (h *ProductHandler) RemoveFeature(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	product, err := h.service.RemoveFeature(r.Context(), ps.ByName("id"), ps.ByName("featureId"))
	if err != nil {
		h.writeError(w, "RemoveFeature", err)
		return
	}

	if err := httputil.WriteSuccess(w, product); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveFeature", "error", err)
	}
}

func (h *ProductHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/products", h.GetAll)
	router.GET("/api/v1/products/search", h.Search)
	router.GET("/api/v1/products/id/:id", h.GetByID)
	router.GET("/api/v1/products/id/:id/unavailable-dates", h.UnavailableDates)
	router.GET("/api/v1/products/category/:id", h.GetByCategory)
	router.POST("/api/v1/products", middleware.RequireAdmin(h.issuer, h.Create))
	router.DELETE("/api/v1/products/id/:id", middleware.RequireAdmin(h.issuer, h.Delete))
	router.POST("/api/v1/products/id/:id/features/:featureId", middleware.RequireAdmin(h.issuer, h.AddFeature))
	router.DELETE("/api/v1/products/id/:id/features/:featureId", middleware.RequireAdmin(h.issuer, h.RemoveFeature))
}

func (h *ProductHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *ProductHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
