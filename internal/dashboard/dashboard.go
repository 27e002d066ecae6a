//go:build !tinygo

// Package dashboard serves the altimeter state over HTTP: a status page, a
// JSON API with the same command entry points as the buttons, the flight
// log as CSV and Prometheus gauges.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"altimeter/app"
	"altimeter/internal/flightlog"
)

// Source is the firmware side of the dashboard.
type Source interface {
	Snapshot() app.Snapshot
	Submit(cmd app.Command) bool
	FlightLog() *flightlog.Log
}

// Server is an http.Handler for the dashboard.
type Server struct {
	src Source
	log *logrus.Entry
	mux *http.ServeMux
	reg *prometheus.Registry
}

// New returns a dashboard for src. A nil log uses the logrus standard
// logger.
func New(src Source, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		src: src,
		log: log.WithField("component", "dashboard"),
		mux: http.NewServeMux(),
		reg: prometheus.NewRegistry(),
	}
	s.registerMetrics()

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/data", s.handleData)
	s.mux.HandleFunc("POST /api/reset", s.command(app.CmdZero, "Altitude reset"))
	s.mux.HandleFunc("POST /api/reset-accel", s.command(app.CmdResetAccel, "Acceleration reset"))
	s.mux.HandleFunc("POST /api/display", s.command(app.CmdToggleDisplay, "Display toggled"))
	s.mux.HandleFunc("POST /api/mode", s.command(app.CmdNextMode, "Mode changed"))
	s.mux.HandleFunc("GET /api/log", s.handleLog)
	s.mux.HandleFunc("DELETE /api/log", s.command(app.CmdClearLog, "Log cleared"))
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.log.WithFields(logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"status":   rec.status,
		"duration": time.Since(start),
	}).Debug("request")
}

// ListenAndServe serves on addr until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Infof("listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type reply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.src.Snapshot())
}

func (s *Server) command(cmd app.Command, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.src.Submit(cmd) {
			s.log.WithField("command", cmd).Warn("command queue full")
			s.writeJSON(w, http.StatusServiceUnavailable, reply{Status: "error", Message: "busy"})
			return
		}
		s.log.WithField("command", cmd).Info(msg)
		s.writeJSON(w, http.StatusOK, reply{Status: "ok", Message: msg})
	}
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	l := s.src.FlightLog()
	if l == nil {
		s.writeJSON(w, http.StatusNotFound, reply{Status: "error", Message: "flight log disabled"})
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="flight.csv"`)
	if _, err := l.WriteTo(w); err != nil {
		s.log.WithError(err).Error("log download")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("encode response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
