package api

import (
	"net/http"

	"github.com/FavorLabs/ipsex"
	"github.com/FavorLabs/ipsex/pkg/jsonhttp"
)

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	jsonhttp.OK(w, StatusResponse{
		Status:  "ok",
		Version: ipsex.Version,
	})
}
