package adaptor

import (
	"net/http"
	"os"
	"path/filepath"

	"course-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SystemHandler struct {
	env       string
	imagesDir string
	log       *zap.Logger
}

func NewSystemHandler(env, imagesDir string, log *zap.Logger) *SystemHandler {
	return &SystemHandler{
		env:       env,
		imagesDir: imagesDir,
		log:       log.With(zap.String("handler", "system")),
	}
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.ResponseOK(w, utils.OKResponse{Env: h.env})
}

// ServeImage handles GET /images/{name}. Only plain file names inside the
// images directory are served.
func (h *SystemHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		utils.ResponseNotFound(w, "Image not found")
		return
	}

	root, err := os.OpenRoot(h.imagesDir)
	if err != nil {
		h.log.Warn("Images directory unavailable", zap.String("dir", h.imagesDir), zap.Error(err))
		utils.ResponseNotFound(w, "Image not found")
		return
	}
	defer root.Close()

	f, err := root.Open(name)
	if err != nil {
		utils.ResponseNotFound(w, "Image not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		utils.ResponseNotFound(w, "Image not found")
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
