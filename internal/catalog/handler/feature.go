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

type FeatureHandler struct {
	service service.FeatureService
	issuer  *auth.TokenIssuer
	log     *logger.Logger
}

func NewFeatureHandler(featureService service.FeatureService, issuer *auth.TokenIssuer, log *logger.Logger) *FeatureHandler {
	return &FeatureHandler{
		service: featureService,
		issuer:  issuer,
		log:     log,
	}
}

func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var feature model.Feature
	if err := json.NewDecoder(r.Body).Decode(&feature); err != nil {
		h.writeJSON(w, "Create", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &feature); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, feature); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *FeatureHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	feature, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, feature); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *FeatureHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	features, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, features); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "error", err)
	}
}

func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *FeatureHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/features", h.GetAll)
	router.GET("/api/v1/features/:id", h.GetByID)
	router.POST("/api/v1/features", middleware.RequireAdmin(h.issuer, h.Create))
	router.DELETE("/api/v1/features/:id", middleware.RequireAdmin(h.issuer, h.Delete))
}

func (h *FeatureHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *FeatureHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
