package handler

import (
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

type CategoryHandler struct {
	service service.CategoryService
	issuer  *auth.TokenIssuer
	log     *logger.Logger
}

func NewCategoryHandler(categoryService service.CategoryService, issuer *auth.TokenIssuer, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: categoryService,
		issuer:  issuer,
		log:     log,
	}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var category model.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		h.writeJSON(w, "Create", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &category); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, category); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	category, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, category); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, categories); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "error", err)
	}
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CategoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/categories", h.GetAll)
	router.GET("/api/v1/categories/:id", h.GetByID)
	router.POST("/api/v1/categories", middleware.RequireAdmin(h.issuer, h.Create))
	router.DELETE("/api/v1/categories/:id", middleware.RequireAdmin(h.issuer, h.Delete))
}

func (h *CategoryHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *CategoryHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
