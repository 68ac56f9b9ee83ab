package server

import (
	"net/http"
	"time"

	"github.com/matst80/slask-boutique/pkg/auth"
	"github.com/matst80/slask-boutique/pkg/common"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
)

type StatusResponse struct {
	Loaded      bool      `json:"loaded"`
	Version     uint64    `json:"version"`
	LoadedAt    time.Time `json:"loadedAt"`
	Origin      string    `json:"origin,omitempty"`
	Products    int       `json:"products"`
	Sessions    int       `json:"sessions"`
	RemoteCache bool      `json:"remoteCache"`
	Role        string    `json:"role,omitempty"`
}

// Reload refetches the catalog and tells the other nodes to do the same.
func (ws *WebServer) Reload(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	s, err := ws.Catalog.Refresh(r.Context())
	if err != nil {
		return common.WithStatus(http.StatusBadGateway, err)
	}
	reloads.Inc()
	if ws.Notifier != nil {
		if err := ws.Notifier.Publish("admin reload", s.Version); err != nil {
			return err
		}
	}
	return enc.Encode(s)
}

func (ws *WebServer) Status(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	res := StatusResponse{
		Role:        auth.RoleFrom(r.Context()),
		RemoteCache: ws.Cache != nil && ws.Cache.HasRemote(),
	}
	if ws.Sessions != nil {
		res.Sessions = ws.Sessions.Len()
	}
	if s, err := ws.Catalog.Current(); err == nil {
		res.Loaded = true
		res.Version = s.Version
		res.LoadedAt = s.LoadedAt
		res.Origin = s.Origin
		res.Products = len(s.Products)
	}
	return enc.Encode(res)
}

func (ws *WebServer) AdminHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("GET /login", ws.Auth.Login)
	srv.HandleFunc("GET /auth_callback", ws.Auth.AuthCallback)
	srv.HandleFunc("GET /logout", ws.Auth.Logout)
	srv.HandleFunc("GET /user", ws.Auth.User)
	srv.HandleFunc("POST /reload", ws.Auth.Middleware(ws.handle(ws.Reload)))
	srv.HandleFunc("GET /status", ws.Auth.Middleware(ws.handle(ws.Status)))
	return srv
}
