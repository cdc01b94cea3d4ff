// Package httpapi exposes the dispatcher and workflows over HTTP. Workflow
// progress is pushed to clients over the websocket event stream; the chat
// and teleprompter endpoints reply synchronously.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
	"github.com/promptdeck/promptdeck/pkg/keyring"
	"github.com/promptdeck/promptdeck/pkg/workflow"
)

// Server wires the HTTP surface of the daemon.
type Server struct {
	catalog  *aimodels.Catalog
	keys     *keyring.Store
	runtime  *workflow.Runtime
	hub      *EventHub
	defaults workflow.RunConfig
	log      zerolog.Logger
}

func NewServer(catalog *aimodels.Catalog, keys *keyring.Store, runtime *workflow.Runtime, hub *EventHub, defaults workflow.RunConfig, log zerolog.Logger) *Server {
	return &Server{
		catalog:  catalog,
		keys:     keys,
		runtime:  runtime,
		hub:      hub,
		defaults: defaults,
		log:      log.With().Str("component", "httpapi").Logger(),
	}
}

// Router builds the chi router for the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/models", s.handleListModels)

		r.Route("/keys", func(r chi.Router) {
			r.Get("/", s.handleListKeys)
			r.Put("/{provider}", s.handleSetKey)
			r.Delete("/{provider}", s.handleClearKey)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/reset", s.handleResetSession)
			r.Post("/screenshots", s.handleEnqueueScreenshot)
			r.Delete("/screenshots", s.handleClearScreenshots)
		})

		r.Route("/workflows", func(r chi.Router) {
			r.Post("/extract-solve", s.handleExtractSolve)
			r.Post("/debug", s.handleDebug)
			r.Post("/cancel", s.handleCancel)
		})

		r.Post("/chat", s.handleChat)
		r.Post("/teleprompter", s.handleTeleprompter)

		r.Get("/events", s.hub.Handle)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type modelInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Provider        string `json:"provider"`
	Vision          bool   `json:"vision"`
	SearchGrounding bool   `json:"search_grounding"`
	Reasoning       bool   `json:"reasoning"`
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	all := s.catalog.All()
	out := make([]modelInfo, 0, len(all))
	for _, m := range all {
		out = append(out, modelInfo{
			ID:              m.ID,
			Name:            m.Name,
			Provider:        string(m.Provider),
			Vision:          m.Capabilities.Vision,
			SearchGrounding: m.Capabilities.SearchGrounding,
			Reasoning:       m.IsReasoningModel(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": out})
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	configured := s.keys.Configured()
	out := make(map[string]bool, len(configured))
	for provider, ok := range configured {
		out[string(provider)] = ok
	}
	writeJSON(w, http.StatusOK, map[string]any{"configured": out})
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	provider, ok := aimodels.ParseProvider(chi.URLParam(r, "provider"))
	if !ok {
		writeError(w, aierrors.New(aierrors.KindInvalidInput, "unknown provider"))
		return
	}
	var body struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, aierrors.Wrap(aierrors.KindInvalidInput, "invalid request body", err))
		return
	}
	s.keys.Set(provider, body.Key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearKey(w http.ResponseWriter, r *http.Request) {
	provider, ok := aimodels.ParseProvider(chi.URLParam(r, "provider"))
	if !ok {
		writeError(w, aierrors.New(aierrors.KindInvalidInput, "unknown provider"))
		return
	}
	s.keys.Clear(provider)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session := s.runtime.Session()
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          session.ID(),
		"has_problem": session.Problem() != nil,
		"busy":        s.runtime.Busy(),
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.runtime.CancelOngoing()
	s.runtime.Session().Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnqueueScreenshot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ImageB64 string `json:"image_b64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ImageB64 == "" {
		writeError(w, aierrors.New(aierrors.KindInvalidInput, "image_b64 is required"))
		return
	}
	s.runtime.Session().EnqueueScreenshot(body.ImageB64)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearScreenshots(w http.ResponseWriter, r *http.Request) {
	s.runtime.Session().ClearScreenshots()
	w.WriteHeader(http.StatusNoContent)
}

// runOverrides are the per-request model and language overrides accepted by
// the workflow endpoints. Empty fields fall back to the configured defaults.
type runOverrides struct {
	ExtractionModel   string `json:"extraction_model,omitempty"`
	SolutionModel     string `json:"solution_model,omitempty"`
	DebugModel        string `json:"debug_model,omitempty"`
	ChatModel         string `json:"chat_model,omitempty"`
	TeleprompterModel string `json:"teleprompter_model,omitempty"`
	Language          string `json:"language,omitempty"`
}

func (s *Server) runConfig(o runOverrides) workflow.RunConfig {
	rc := s.defaults
	if o.ExtractionModel != "" {
		rc.ExtractionModel = o.ExtractionModel
	}
	if o.SolutionModel != "" {
		rc.SolutionModel = o.SolutionModel
	}
	if o.DebugModel != "" {
		rc.DebugModel = o.DebugModel
	}
	if o.ChatModel != "" {
		rc.ChatModel = o.ChatModel
	}
	if o.TeleprompterModel != "" {
		rc.TeleprompterModel = o.TeleprompterModel
	}
	if o.Language != "" {
		rc.Language = o.Language
	}
	return rc
}

func (s *Server) handleExtractSolve(w http.ResponseWriter, r *http.Request) {
	var body runOverrides
	if err := decodeOptional(r, &body); err != nil {
		writeError(w, err)
		return
	}
	rc := s.runConfig(body)
	// The slot claim happens before the reply, so a concurrent start gets
	// a 409 here and a 202 always has a run behind it. The run itself is
	// detached from the request context and reports through the event
	// stream.
	if err := s.runtime.LaunchExtractSolve(context.Background(), rc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	var body runOverrides
	if err := decodeOptional(r, &body); err != nil {
		writeError(w, err)
		return
	}
	rc := s.runConfig(body)
	if err := s.runtime.LaunchDebug(context.Background(), rc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.runtime.CancelOngoing()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		runOverrides
		Text          string                 `json:"text"`
		History       []workflow.ChatMessage `json:"history,omitempty"`
		SearchEnabled bool                   `json:"search_enabled,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, aierrors.Wrap(aierrors.KindInvalidInput, "invalid request body", err))
		return
	}
	rc := s.runConfig(body.runOverrides)
	reply, err := s.runtime.SendChatMessage(r.Context(), body.Text, body.History, body.SearchEnabled, rc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleTeleprompter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		runOverrides
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, aierrors.Wrap(aierrors.KindInvalidInput, "invalid request body", err))
		return
	}
	rc := s.runConfig(body.runOverrides)
	reply, err := s.runtime.SendTeleprompterTranscript(r.Context(), body.Transcript, rc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// decodeOptional parses an optional JSON body; an empty body is fine.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return aierrors.Wrap(aierrors.KindInvalidInput, "invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{
		"error":   string(aierrors.KindOf(err)),
		"message": aierrors.HumanMessage(err),
	})
}

func statusForError(err error) int {
	switch aierrors.KindOf(err) {
	case aierrors.KindInvalidInput, aierrors.KindMalformedResponse:
		return http.StatusBadRequest
	case aierrors.KindModelNotFound:
		return http.StatusNotFound
	case aierrors.KindAlreadyInProgress:
		return http.StatusConflict
	case aierrors.KindNoProblemContext, aierrors.KindProviderNotConfigured:
		return http.StatusPreconditionFailed
	case aierrors.KindAuth:
		return http.StatusBadGateway
	case aierrors.KindTimeout:
		return http.StatusGatewayTimeout
	case aierrors.KindCancelled:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
