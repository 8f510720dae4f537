package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"kiosk/internal/api"
	"kiosk/internal/assets"
	"kiosk/internal/config"
	"kiosk/internal/coordinator"
	"kiosk/internal/logging"
)

// httpHandler serves the reader, display, and management clients.
type httpHandler struct {
	cfg    *config.Config
	coord  *coordinator.Coordinator
	logger *slog.Logger
	reader interface{ Attached() bool }
}

func newRouter(cfg *config.Config, coord *coordinator.Coordinator, logger *slog.Logger, reader interface{ Attached() bool }) http.Handler {
	h := &httpHandler{
		cfg:    cfg,
		coord:  coord,
		logger: logging.NewComponentLogger(logger, "http"),
		reader: reader,
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout()))
	r.Use(c.Handler)
	r.Use(httprate.LimitByIP(cfg.HTTP.ScanRateLimit, time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.handlePing)
		r.Get("/status", h.handleStatus)
		r.Post("/scan", h.handleScan)
		r.Get("/state", h.handleState)
		r.Post("/navigate", h.handleNavigate)
		r.Get("/cards", h.handleCards)
		r.Post("/cards/{cardID}/assets", h.handleMapCard)
		r.Delete("/cards/{cardID}/assets/{index}", h.handleUnmapAsset)
		r.Get("/mapping", h.handleMappingGet)
		r.Put("/mapping", h.handleMappingPut)
		r.Get("/assets", h.handleAssetList)
		r.Post("/assets", h.handleAssetUpload)
		r.Post("/assets/rename", h.handleAssetRename)
		r.Delete("/assets/{name}", h.handleAssetDelete)
	})
	r.Get("/assets/{name}", h.handleAssetServe)

	return r
}

func (h *httpHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Debug("write response failed", logging.Error(err))
	}
}

func (h *httpHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}

func (h *httpHandler) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func (h *httpHandler) handlePing(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *httpHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	attached := false
	if h.reader != nil {
		attached = h.reader.Attached()
	}
	status, err := h.coord.Status(r.Context(), attached)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *httpHandler) handleScan(w http.ResponseWriter, r *http.Request) {
	var req api.ScanRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.CardID) == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("card_id is required"))
		return
	}

	scanID := uuid.NewString()
	resp, err := h.coord.HandleScan(r.Context(), req.CardID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.logger.Debug("scan handled",
		logging.String(logging.FieldScanID, scanID),
		logging.String(logging.FieldCardID, req.CardID),
		logging.Bool("inserted", resp.Inserted),
		logging.Bool("mapped", resp.Mapped))
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *httpHandler) handleState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.coord.State())
}

func (h *httpHandler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req api.NavigateRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.coord.Navigate(req.Direction)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *httpHandler) handleCards(w http.ResponseWriter, r *http.Request) {
	resp, err := h.coord.ScannedCards(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *httpHandler) handleMapCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	var req api.MapCardRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.coord.MapCard(cardID, req.Asset); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"assets": h.coord.CardAssets(cardID)})
}

func (h *httpHandler) handleUnmapAsset(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("index must be an integer"))
		return
	}
	if err := h.coord.UnmapAsset(cardID, index); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"assets": h.coord.CardAssets(cardID)})
}

func (h *httpHandler) handleMappingGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, h.coord.MappingText())
}

func (h *httpHandler) handleMappingPut(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("read body failed"))
		return
	}
	if err := h.coord.WriteMappingText(string(body)); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *httpHandler) handleAssetList(w http.ResponseWriter, r *http.Request) {
	infos, err := h.coord.Assets()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]api.AssetInfo{"assets": infos})
}

func (h *httpHandler) handleAssetUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("multipart file field is required"))
		return
	}
	defer file.Close()

	if err := h.coord.Library().Save(header.Filename, file); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.logger.Info("asset uploaded", logging.String(logging.FieldAsset, header.Filename))
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "filename": header.Filename})
}

func (h *httpHandler) handleAssetRename(w http.ResponseWriter, r *http.Request) {
	var req api.RenameAssetRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.coord.Library().Rename(req.OldName, req.NewName); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, assets.ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, assets.ErrExists) {
			status = http.StatusConflict
		}
		h.writeError(w, status, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":       "success",
		"old_filename": req.OldName,
		"new_filename": req.NewName,
	})
}

func (h *httpHandler) handleAssetDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.coord.Library().Delete(name); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, assets.ErrNotFound) {
			status = http.StatusNotFound
		}
		h.writeError(w, status, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *httpHandler) handleAssetServe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := h.coord.Library().Path(name)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		h.writeError(w, http.StatusNotFound, assets.ErrNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	// ServeContent handles Range requests so video seeking works.
	http.ServeContent(w, r, name, info.ModTime(), f)
}
