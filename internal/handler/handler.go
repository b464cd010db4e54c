// Package handler wires the HTTP surface: intake form, plan pages, and the
// per-topic video pages. Each request is handled start to finish; the only
// blocking calls are the completion and video lookups.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/exampill/studyplanner/internal/handler/views"
	"github.com/exampill/studyplanner/internal/intake"
	"github.com/exampill/studyplanner/internal/model"
	"github.com/exampill/studyplanner/internal/planner"
	"github.com/exampill/studyplanner/internal/store"
	"github.com/exampill/studyplanner/internal/videos"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	planner  *planner.Client
	videos   *videos.Service
	fallback []model.TopicWeight // substituted when analysis yields no topics; nil disables
	config   model.AppConfig
}

// New creates a new Handler.
func New(s *store.Store, p *planner.Client, v *videos.Service, fallbackTopics []model.TopicWeight, cfg model.AppConfig) *Handler {
	return &Handler{store: s, planner: p, videos: v, fallback: fallbackTopics, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.csrfMiddleware)
	r.Get("/", h.handleForm)
	r.Get("/form", h.handleForm)
	r.Post("/submit", h.handleSubmit)
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/topics", h.handleTopics)
	r.Get("/videos/{idx}", h.handleTopicVideos)
	r.Get("/about", h.handleAbout)
	r.Get("/faq", h.handleFAQ)
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, views.FormPage(model.FormView{}))
}

func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, views.AboutPage())
}

func (h *Handler) handleFAQ(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, views.FAQPage())
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	form := intake.FormValues{
		Subject:  r.FormValue(intake.FieldSubject),
		ExamName: r.FormValue(intake.FieldExamName),
		ExamDate: r.FormValue(intake.FieldExamDate),
		Topics:   r.FormValue(intake.FieldTopics),
		Notes:    r.FormValue(intake.FieldNotes),
	}

	req, err := intake.Parse(form)
	if err != nil {
		var verr *intake.ValidationError
		if !errors.As(err, &verr) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		render(w, r, http.StatusUnprocessableEntity, views.FormPage(model.FormView{
			Subject:  form.Subject,
			ExamName: form.ExamName,
			ExamDate: form.ExamDate,
			Topics:   form.Topics,
			Notes:    form.Notes,
			Errors:   verr.Fields,
		}))
		return
	}

	token, err := h.sessionToken(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	topics, err := h.planner.AnalyzeTopics(ctx, req)
	if err != nil {
		var uerr *planner.UpstreamError
		if errors.As(err, &uerr) {
			slog.Error("topic analysis failed", "subject", req.Subject, "error", err)
			render(w, r, http.StatusBadGateway, views.ErrorPage("UpstreamErrorTitle", "UpstreamErrorBody"))
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(topics) == 0 && h.fallback != nil {
		slog.Warn("analysis yielded no topics, using fallback plan", "subject", req.Subject)
		topics = h.fallback
	}

	if _, err := h.store.SavePlan(token, model.StudyPlan{Request: req, Topics: topics}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	plan, err := h.currentPlan(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if plan == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, views.DashboardPage(*plan))
}

func (h *Handler) handleTopics(w http.ResponseWriter, r *http.Request) {
	plan, err := h.currentPlan(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if plan == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, views.TopicsPage(*plan))
}

func (h *Handler) handleTopicVideos(w http.ResponseWriter, r *http.Request) {
	plan, err := h.currentPlan(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if plan == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil || idx < 0 || idx >= len(plan.Topics) {
		http.Redirect(w, r, "/topics", http.StatusSeeOther)
		return
	}
	if h.config.MaxVideoTopics > 0 && idx >= h.config.MaxVideoTopics {
		http.Redirect(w, r, "/topics", http.StatusSeeOther)
		return
	}
	topic := plan.Topics[idx]

	examName := plan.Request.ExamName
	if examName == "" {
		examName = plan.Request.Subject
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	recs, err := h.videos.Recommend(ctx, topic.Name, examName)
	if err != nil {
		// Degrades to an empty list for this topic; the page still renders.
		slog.Warn("video recommendation failed", "topic", topic.Name, "error", err)
		recs = nil
	}

	render(w, r, http.StatusOK, views.VideosPage(topic, recs))
}

func (h *Handler) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}
