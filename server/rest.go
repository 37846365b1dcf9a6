package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/feedtriage/pkg/domain"
)

const (
	msgRunning        = "Customer Feedback Prioritizer running"
	msgProvideText    = "Please provide ?text=Your feedback here"
	msgClassifyFailed = "classification failed"
	defaultListLimit  = 20
	maxListLimit      = 500
)

// rootHandler answers with service banner
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, map[string]string{"message": msgRunning})
}

// healthHandler answers liveness probe
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// feedbackHandler returns all loaded feedback rows
func (s *Server) feedbackHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := s.triage.Feedback(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to load feedback: %v", err)
		renderError(w, r, errors.New("failed to load feedback"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rows)
}

// classifyHandler classifies feedback passed as ?text=
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		renderError(w, r, errors.New(msgProvideText), http.StatusBadRequest)
		return
	}

	res, err := s.triage.Classify(r.Context(), text)
	if err != nil {
		log.Printf("[ERROR] failed to classify feedback: %v", err)
		renderError(w, r, errors.New(msgClassifyFailed), statusFor(err))
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"feedback": text, "classification": res})
}

// generateReportHandler generates weekly report in ?format=json|md, json by default
func (s *Server) generateReportHandler(w http.ResponseWriter, r *http.Request) {
	file, ok := s.generate(w, r)
	if !ok {
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"message": "Report generated successfully", "file": file.Name})
}

// sendSlackHandler generates report and posts it to ?webhook_url= or configured webhook
func (s *Server) sendSlackHandler(w http.ResponseWriter, r *http.Request) {
	webhook := r.URL.Query().Get("webhook_url")
	if webhook == "" {
		webhook = s.config.GetDeliveryConfig().Slack.WebhookURL
	}
	if webhook == "" {
		renderError(w, r, errors.New("Please provide ?webhook_url=Your slack webhook"), http.StatusBadRequest) //nolint:staticcheck // user facing message
		return
	}

	file, ok := s.generate(w, r)
	if !ok {
		return
	}

	if err := s.slack.Send(r.Context(), webhook, file); err != nil {
		log.Printf("[WARN] failed to send report %s to slack: %v", file.Name, err)
		renderJSON(w, r, http.StatusOK, map[string]any{"message": "Failed to send report to Slack", "file": file.Name, "sent": false})
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"message": "Report sent to Slack", "file": file.Name, "sent": true})
}

// sendEmailHandler generates report and mails it, sender and recipient fall back to configured defaults
func (s *Server) sendEmailHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	smtpCfg := s.config.GetDeliveryConfig().SMTP
	req := domain.EmailRequest{
		From:     valueOr(q.Get("sender_email"), smtpCfg.From),
		Password: valueOr(q.Get("sender_password"), smtpCfg.Password),
		To:       q.Get("recipient_email"),
		Subject:  valueOr(q.Get("subject"), "Weekly Feedback Report"),
		Body:     valueOr(q.Get("body"), "Please find the weekly feedback report attached."),
	}
	if req.From == "" || req.To == "" {
		renderError(w, r, errors.New("Please provide ?sender_email= and ?recipient_email="), http.StatusBadRequest) //nolint:staticcheck // user facing message
		return
	}

	file, ok := s.generate(w, r)
	if !ok {
		return
	}

	if err := s.mailer.Send(r.Context(), req, file); err != nil {
		log.Printf("[WARN] failed to email report %s: %v", file.Name, err)
		renderJSON(w, r, http.StatusOK, map[string]any{"message": "Failed to send email", "file": file.Name, "sent": false})
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"message": fmt.Sprintf("Report emailed to %s", req.To), "file": file.Name, "sent": true})
}

// insightsHandler returns llm insights for loaded feedback
func (s *Server) insightsHandler(w http.ResponseWriter, r *http.Request) {
	insights, err := s.triage.Insights(r.Context())
	if err != nil {
		log.Printf("[WARN] failed to generate insights: %v", err)
		renderError(w, r, errors.New("insights unavailable"), statusFor(err))
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"insights": insights})
}

// quoteHandler returns next rotating quote
func (s *Server) quoteHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, map[string]string{"quote": s.quotes.Next()})
}

// reportsHandler returns recently generated reports
func (s *Server) reportsHandler(w http.ResponseWriter, r *http.Request) {
	runs, err := s.triage.RecentReports(r.Context(), listLimit(r))
	if err != nil {
		log.Printf("[ERROR] failed to get recent reports: %v", err)
		renderError(w, r, errors.New("failed to get reports"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, runs)
}

// reportFileHandler serves previously generated report file for download
func (s *Server) reportFileHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	file, err := s.triage.LoadReport(name)
	if err != nil {
		log.Printf("[WARN] failed to load report %q: %v", name, err)
		renderError(w, r, errors.New("report not available"), statusFor(err))
		return
	}
	ct := "text/markdown; charset=utf-8"
	if file.Format == domain.FormatJSON {
		ct = "application/json; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		log.Printf("[WARN] failed to write report %s: %v", file.Name, err)
	}
}

// classificationsHandler returns recent classify answers
func (s *Server) classificationsHandler(w http.ResponseWriter, r *http.Request) {
	runs, err := s.triage.RecentClassifications(r.Context(), listLimit(r))
	if err != nil {
		log.Printf("[ERROR] failed to get recent classifications: %v", err)
		renderError(w, r, errors.New("failed to get classifications"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, runs)
}

// generate runs report generation for ?format= and renders error response on failure
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (domain.ReportFile, bool) {
	format := valueOr(r.URL.Query().Get("format"), string(domain.FormatJSON))
	file, err := s.triage.GenerateReport(r.Context(), format)
	if err != nil {
		log.Printf("[ERROR] failed to generate %s report: %v", format, err)
		msg := "report generation failed"
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			msg = err.Error()
		}
		renderError(w, r, errors.New(msg), statusFor(err))
		return domain.ReportFile{}, false
	}
	return file, true
}

// statusFor maps domain error kinds to http status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInputMissing), errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrModelFailure), errors.Is(err, domain.ErrDeliveryFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// listLimit parses ?limit= with default and upper bound
func listLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
