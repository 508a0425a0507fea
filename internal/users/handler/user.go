package handler

import (
	"encoding/json"
	"net/http"

	"autobooking/internal/users/service"
	"autobooking/pkg/auth"
	httputil "autobooking/pkg/http"
	"autobooking/pkg/logger"
	"autobooking/pkg/middleware"
	"autobooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service   service.UserService
	favorites service.FavoriteService
	issuer    *auth.TokenIssuer
	log       *logger.Logger
}

func NewUserHandler(
	userService service.UserService,
	favoriteService service.FavoriteService,
	issuer *auth.TokenIssuer,
	log *logger.Logger,
) *UserHandler {
	return &UserHandler{
		service:   userService,
		favorites: favoriteService,
		issuer:    issuer,
		log:       log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, "Register", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "error", err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, "Login", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

// Me returns the profile of the token owner.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "error", err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	users, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, users, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

// Favorites operate on the token owner; the product ID comes from the path.

func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserID(r.Context())
	if err := h.favorites.Add(r.Context(), userID, ps.ByName("productId")); err != nil {
		h.writeError(w, "AddFavorite", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserID(r.Context())
	if err := h.favorites.Remove(r.Context(), userID, ps.ByName("productId")); err != nil {
		h.writeError(w, "RemoveFavorite", err)
		return
	}

	httputil.WriteNoContent(w)
}

type favoriteStatusResponse struct {
	Favorite bool `json:"favorite"`
}

// IsFavorite reports whether the product is in the token owner's favorites.
func (h *UserHandler) IsFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserID(r.Context())
	favorite, err := h.favorites.IsFavorite(r.Context(), userID, ps.ByName("productId"))
	if err != nil {
		h.writeError(w, "IsFavorite", err)
		return
	}

	if err := httputil.WriteSuccess(w, favoriteStatusResponse{Favorite: favorite}); err != nil {
		h.log.Error("failed to write success response", "handler", "IsFavorite", "error", err)
	}
}

func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	products, err := h.favorites.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, "ListFavorites", err)
		return
	}

	if err := httputil.WriteSuccess(w, products); err != nil {
		h.log.Error("failed to write success response", "handler", "ListFavorites", "error", err)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users/register", h.Register)
	router.POST("/api/v1/users/login", h.Login)
	router.GET("/api/v1/users/me", middleware.RequireAuth(h.issuer, h.Me))
	router.GET("/api/v1/users", middleware.RequireAdmin(h.issuer, h.GetAll))
	router.GET("/api/v1/users/id/:id", middleware.RequireAdmin(h.issuer, h.GetByID))
	router.DELETE("/api/v1/users/id/:id", middleware.RequireAdmin(h.issuer, h.Delete))

	router.GET("/api/v1/favorites", middleware.RequireAuth(h.issuer, h.ListFavorites))
	router.GET("/api/v1/favorites/:productId", middleware.RequireAuth(h.issuer, h.IsFavorite))
	router.POST("/api/v1/favorites/:productId", middleware.RequireAuth(h.issuer, h.AddFavorite))
	router.DELETE("/api/v1/favorites/:productId", middleware.RequireAuth(h.issuer, h.RemoveFavorite))
}

func (h *UserHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *UserHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
