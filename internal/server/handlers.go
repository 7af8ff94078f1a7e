package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arraypress/edd-register-recount-tools/internal/batch"
	"github.com/arraypress/edd-register-recount-tools/internal/logger"
)

var (
	optionTmpl = template.Must(template.New("option").Parse(
		`<option data-type="{{.Type}}" value="{{.Key}}" data-tool-key="{{.Key}}">{{.Label}}</option>` + "\n"))
	descriptionTmpl = template.Must(template.New("description").Parse(
		`<span id="{{.Key}}">{{.Description}}</span>` + "\n"))
)

// handleOptions renders one <option> element per registered tool for the
// admin UI's tool selector.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	for _, def := range s.registry.Definitions() {
		if err := optionTmpl.Execute(w, def); err != nil {
			logger.Error("failed to render tool option", "tool_key", def.Key, "error", err)
			return
		}
	}
}

// handleDescriptions renders a <span> per tool that supplies a description.
func (s *Server) handleDescriptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	for _, def := range s.registry.Definitions() {
		if def.Description == "" {
			continue
		}
		if err := descriptionTmpl.Execute(w, def); err != nil {
			logger.Error("failed to render tool description", "tool_key", def.Key, "error", err)
			return
		}
	}
}

// stepResponse is the JSON body the admin UI polls on
type stepResponse struct {
	ToolKey    string  `json:"tool_key"`
	Step       int64   `json:"step"`
	Done       bool    `json:"done"`
	Percentage float64 `json:"percentage"`
}

// handleStep runs exactly one step of the requested tool. The caller
// advances the step counter and re-posts until done is true.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	step, _ := strconv.ParseInt(r.FormValue("step"), 10, 64)
	req := batch.Request{
		ToolKey: r.FormValue("tool_key"),
		Step:    step,
		Start:   sanitizeDate(r.FormValue("start")),
		End:     sanitizeDate(r.FormValue("end")),
	}

	requestID := uuid.New().String()
	ctx := logger.With(r.Context(),
		zap.String("request_id", requestID),
		zap.String("tool_key", req.ToolKey),
		zap.Int64("step", req.Step))

	job := batch.NewJob(s.registry, s.factory, req)

	cont, err := job.ProcessStep(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("step failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	pct, err := job.PercentComplete(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("progress query failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	logger.FromContext(ctx).Debug("step processed",
		zap.Bool("done", !cont), zap.Float64("percentage", pct))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stepResponse{
		ToolKey:    req.ToolKey,
		Step:       req.Step,
		Done:       !cont,
		Percentage: pct,
	})
}
