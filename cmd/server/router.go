package main

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/question-list/internal/config"
	"github.com/janisto/question-list/internal/http/health"
	"github.com/janisto/question-list/internal/http/routes"
	applog "github.com/janisto/question-list/internal/platform/logging"
	appmiddleware "github.com/janisto/question-list/internal/platform/middleware"
	"github.com/janisto/question-list/internal/platform/respond"
	"github.com/janisto/question-list/internal/service/question"
)

const docsPath = "/api-docs"

// newRouter builds the full middleware stack and registers every route.
func newRouter(cfg *config.Config, svc question.Service) http.Handler {
	respond.Install()

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP and X-Forwarded-For. Run behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(cfg.ProjectID),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(Version))

	humaCfg := huma.DefaultConfig("Question List", Version)
	humaCfg.DocsPath = docsPath
	api := humachi.New(router, humaCfg)

	// Problem responses are also served as CBOR.
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if problem, ok := resp.Content["application/problem+json"]; ok {
					resp.Content["application/problem+cbor"] = problem
				}
			}
		},
	)

	routes.Register(api, svc)
	return router
}

// newQuestionService returns the listing client for the configured API, or
// the built-in demo service when demo mode is on.
func newQuestionService(cfg *config.Config) question.Service {
	if cfg.QuestionsAPI.Demo {
		return question.NewMockService()
	}
	return question.NewClient(
		&http.Client{Timeout: time.Duration(cfg.QuestionsAPI.Timeout)},
		question.WithBaseURL(cfg.QuestionsAPI.BaseURL),
		question.WithUserAgent("question-list/"+Version),
	)
}
