// pages.go — публичные страницы: главная, таблица лидеров, советы.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/afterburner-program/afterburner/internal/domain/leaderboard"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

// boardBuilder — часть сервиса таблицы лидеров, нужная страницам.
type boardBuilder interface {
	Board(ctx context.Context) (*leaderboard.Board, error)
}

// PagesHandler — обработчики публичных страниц.
type PagesHandler struct {
	views       *views.Renderer
	leaderboard boardBuilder
	logger      *slog.Logger
}

// NewPagesHandler создаёт обработчики публичных страниц.
func NewPagesHandler(v *views.Renderer, lb boardBuilder, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{
		views:       v,
		leaderboard: lb,
		logger:      logger.With(slog.String("component", "ui_pages")),
	}
}

// HandleIndex — GET /
func (h *PagesHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "index", pageData(r, "", nil))
}

// HandleLeaderboard — GET /leaderboard
func (h *PagesHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.leaderboard.Board(r.Context())
	if err != nil {
		h.logger.Error("Ошибка сборки таблицы лидеров", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.views.Render(w, http.StatusOK, "leaderboard",
		pageData(r, "Leaderboard", &views.LeaderboardData{Board: board}))
}

// HandleTips — GET /tips
func (h *PagesHandler) HandleTips(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "tips", pageData(r, "Tips", nil))
}

// HandleContribute — GET /contribute
func (h *PagesHandler) HandleContribute(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "contribute", pageData(r, "Contribute", nil))
}
