package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugHandler serves health and metrics on the internal port. Health fails
// until the first catalog snapshot is loaded.
func (ws *WebServer) DebugHandler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := ws.Catalog.Current(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Handler mounts the shopper api under /api and the admin api under /admin.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/admin/", http.StripPrefix("/admin", ws.AdminHandler()))
	mux.Handle("/api/", http.StripPrefix("/api", ws.ClientHandler()))
	return mux
}
