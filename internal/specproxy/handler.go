package specproxy

import (
	"net/http"

	"github.com/vendorhub/vendorhub/internal/platform/httpx"
)

// Handler exposes the proxy over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler builds a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// handleLookup serves GET /devicespecs. The three modes always answer 200;
// only malformed queries are rejected.
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	brand := q.Get("brand")
	model := q.Get("model")

	switch q.Get("mode") {
	case "brands":
		httpx.JSON(w, http.StatusOK, h.svc.Brands(r.Context()))
	case "models":
		if brand == "" {
			httpx.Problem(w, http.StatusBadRequest, "Missing Parameter", "mode=models requires brand")
			return
		}
		httpx.JSON(w, http.StatusOK, h.svc.Models(r.Context(), brand))
	case "specs":
		if brand == "" || model == "" {
			httpx.Problem(w, http.StatusBadRequest, "Missing Parameter", "mode=specs requires brand and model")
			return
		}
		httpx.JSON(w, http.StatusOK, h.svc.Specs(r.Context(), brand, model))
	default:
		httpx.Problem(w, http.StatusBadRequest, "Unknown Mode", "mode must be one of brands, models, specs")
	}
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
