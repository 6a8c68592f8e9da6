// ABOUTME: Web UI server with embedded templates
// ABOUTME: Provides a read-only dashboard, record browser, and SVG ownership graphs
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/viz"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	svc       *crm.Service
	templates *template.Template
	generator *viz.GraphGenerator
	log       *log.Logger
}

type rowView struct {
	ID      string
	Label   string
	Columns []string
}

type fieldView struct {
	Key   string
	Value string
}

// listColumns are the fields shown after the name on list pages.
var listColumns = map[models.Kind][]string{
	models.KindUser:     {"email"},
	models.KindContact:  {"email", "phone"},
	models.KindCompany:  {"industry", "website"},
	models.KindDeal:     {"stage", "value", "probability"},
	models.KindLead:     {"status", "email", "source"},
	models.KindActivity: {"type", "status", "dueDate"},
	models.KindNote:     {"title"},
}

func NewServer(svc *crm.Service, logger *log.Logger) (*Server, error) {
	funcMap := template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		svc:       svc,
		templates: tmpl,
		generator: viz.NewGraphGenerator(svc.DB()),
		log:       logger,
	}, nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /records/{entity}", s.handleList)
	mux.HandleFunc("GET /partials/detail/{entity}/{id}", s.handleDetail)
	mux.HandleFunc("GET /graphs/{userID}", s.handleGraph)
	return mux
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("starting web server", "url", "http://"+addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := viz.GenerateDashboardStats(r.Context(), s.svc.DB(), s.svc.Now())
	if err != nil {
		s.fail(w, err)
		return
	}

	pipeline := make([]viz.PipelineStageStats, 0, len(models.DealStages))
	for _, stage := range models.DealStages {
		p := stats.PipelineByStage[stage]
		p.Stage = stage
		pipeline = append(pipeline, p)
	}

	data := map[string]interface{}{
		"Stats":           stats,
		"Pipeline":        pipeline,
		"Kinds":           models.Kinds,
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseKind(r.PathValue("entity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	records, err := s.svc.List(r.Context(), kind)
	if err != nil {
		s.fail(w, err)
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	columns := listColumns[kind]
	rows := make([]rowView, 0, len(records))
	for _, rec := range records {
		if query != "" && !strings.Contains(strings.ToLower(rec.Label()), query) {
			continue
		}
		values, err := models.AsMap(rec)
		if err != nil {
			s.fail(w, err)
			return
		}
		row := rowView{ID: rec.RecordID(), Label: rec.Label()}
		for _, key := range columns {
			row.Columns = append(row.Columns, formatValue(values[key]))
		}
		rows = append(rows, row)
	}

	data := map[string]interface{}{
		"Kind":            kind,
		"Columns":         columns,
		"Rows":            rows,
		"Query":           r.URL.Query().Get("q"),
		"Kinds":           models.Kinds,
		"Title":           strings.ToUpper(kind.Table()[:1]) + kind.Table()[1:],
		"ContentTemplate": "list-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseKind(r.PathValue("entity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	rec, err := s.svc.Get(r.Context(), kind, r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	values, err := models.AsMap(rec)
	if err != nil {
		s.fail(w, err)
		return
	}

	keys := models.DisplayKeys(kind)
	fields := make([]fieldView, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, fieldView{Key: key, Value: formatValue(values[key])})
	}

	data := map[string]interface{}{
		"Kind":    kind,
		"Label":   rec.Label(),
		"OwnerID": ownerOf(rec),
		"Fields":  fields,
	}

	s.renderTemplate(w, "detail.html", data)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := s.generator.RenderOwnershipGraph(r.Context(), r.PathValue("userID"), graphviz.SVG, w); err != nil {
		w.Header().Del("Content-Type")
		s.fail(w, err)
	}
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template error", "template", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// fail answers with the status the error kind maps to.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := crmerr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func ownerOf(rec models.Record) string {
	if rec.RecordKind() == models.KindUser {
		return rec.RecordID()
	}
	return rec.OwnerID()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprint(v)
}
