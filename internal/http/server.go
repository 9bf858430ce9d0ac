// Package http hosts S9's gin server. Grounded on internal/http/server.go.
package http

import "github.com/gin-gonic/gin"

type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}
