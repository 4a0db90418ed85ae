package api

import (
	"net/http"

	"github.com/FavorLabs/ipsex/pkg/jsonhttp"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func (s *server) setupRouting() {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(jsonhttp.NotFoundHandler)

	router.Handle("/health", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(s.healthHandler),
	})
	router.Handle("/metrics", jsonhttp.MethodHandler{
		"GET": promhttp.HandlerFor(s.metricsRegistry, promhttp.HandlerOpts{}),
	})

	// POST and DELETE address a key, GET addresses a storage handle
	router.Handle("/files/{id}", jsonhttp.MethodHandler{
		"GET":    http.HandlerFunc(s.fileDownloadHandler),
		"POST":   http.HandlerFunc(s.fileUploadHandler),
		"DELETE": http.HandlerFunc(s.fileDeleteHandler),
	})
	router.Handle("/keys", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(s.keysHandler),
	})
	router.Handle("/keys/{key}", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(s.keyHandler),
	})
	router.Handle("/orders", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(s.ordersHandler),
	})

	var h http.Handler = router
	h = handlers.CompressHandler(h)
	if len(s.o.CORSAllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: s.o.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"*"},
		}).Handler(h)
	}
	h = handlers.CombinedLoggingHandler(s.logger.WriterLevel(logrus.DebugLevel), h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.logger}), handlers.PrintRecoveryStack(false))(h)
	s.Handler = h
}

type recoveryLogger struct {
	logger logging.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error(v...)
}
