package api

import (
	"net/http"

	"github.com/FavorLabs/ipsex/pkg/jsonhttp"
)

type orderResponse struct {
	ID          uint64   `json:"id"`
	Key         string   `json:"key"`
	Fingerprint string   `json:"fingerprint"`
	Length      uint64   `json:"length"`
	Miners      []string `json:"miners"`
	Days        uint64   `json:"days"`
}

type ordersResponse struct {
	Orders []orderResponse `json:"orders"`
}

func (s *server) ordersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := s.files.Orders(r.Context())
	if err != nil {
		s.logger.Debugf("orders: list: %v", err)
		s.logger.Error("orders: list")
		respondFileError(w, err)
		return
	}

	resp := ordersResponse{Orders: make([]orderResponse, 0, len(orders))}
	for _, o := range orders {
		miners := make([]string, 0, len(o.Miners))
		for _, m := range o.Miners {
			miners = append(miners, m.String())
		}
		resp.Orders = append(resp.Orders, orderResponse{
			ID:          o.ID,
			Key:         string(o.Key),
			Fingerprint: o.Fingerprint.String(),
			Length:      o.Length,
			Miners:      miners,
			Days:        o.Days,
		})
	}
	jsonhttp.OK(w, resp)
}
