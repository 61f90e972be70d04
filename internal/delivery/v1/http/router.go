package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	_ "github.com/vismatch/go-backend/docs" // Импорт сгенерированных файлов
	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(searchUC usecase.SearchUC, catalogRepo usecase.CatalogRepository, recognition usecase.RecognitionInfra) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		searchHandler := NewSearchHandler(searchUC, catalogRepo, r.logger)
		relayHandler := NewRelayHandler(recognition, r.logger)
		registerSearchRoutes(v1, searchHandler)
		registerRelayRoutes(v1, relayHandler)
	})
}

func registerSearchRoutes(router chi.Router, searchHandler *SearchHandler) {
	router.Route("/search", func(s chi.Router) {
		s.Post("/", searchHandler.searchByFile)
		s.Post("/url", searchHandler.searchByURL)
		s.Get("/session", searchHandler.session)
	})
	router.Get("/catalog", searchHandler.listCatalog)
}

func registerRelayRoutes(router chi.Router, relayHandler *RelayHandler) {
	router.Post("/imagga", relayHandler.relay)
}
