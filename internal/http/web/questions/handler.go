// Package questions serves the server-rendered question list page.
package questions

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/question-list/internal/platform/logging"
	"github.com/janisto/question-list/internal/service/question"
	"github.com/janisto/question-list/internal/view"
)

// PagePath is the route of the question list page.
const PagePath = "/question/question_list"

// Register wires the question list page into the provided API router.
func Register(api huma.API, svc question.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-question-list-page",
		Method:      http.MethodGet,
		Path:        PagePath,
		Summary:     "Render the question list page",
		Description: "Fetches the current page of questions from the listing API and renders it as HTML. " +
			"A non-success response from the listing API renders a fixed failure message.",
		Tags: []string{"Questions"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Rendered listing",
				Content:     map[string]*huma.MediaType{"text/html": {Schema: &huma.Schema{Type: huma.TypeString}}},
			},
			"502": {
				Description: "Listing API returned a non-success status",
				Content:     map[string]*huma.MediaType{"text/html": {Schema: &huma.Schema{Type: huma.TypeString}}},
			},
		},
	}, func(ctx context.Context, _ *struct{}) (*PageOutput, error) {
		return renderPage(ctx, svc)
	})
}

func renderPage(ctx context.Context, svc question.Service) (*PageOutput, error) {
	var buf bytes.Buffer

	page, err := svc.ListQuestions(ctx)
	if err != nil {
		var upErr *question.UpstreamError
		if !errors.As(err, &upErr) {
			return nil, err
		}
		applog.LogError(ctx, "question list request failed", nil,
			zap.Int("status", upErr.Status),
			zap.String("statusText", upErr.StatusText),
		)
		if err := view.Failure(&buf); err != nil {
			return nil, err
		}
		return &PageOutput{Status: http.StatusBadGateway, ContentType: view.ContentType, Body: buf.Bytes()}, nil
	}

	if err := view.Listing(&buf, page); err != nil {
		return nil, err
	}
	applog.LogDebug(ctx, "question list rendered",
		zap.Int("currentPage", page.CurrentPage),
		zap.Int("items", len(page.Items)),
	)
	return &PageOutput{Status: http.StatusOK, ContentType: view.ContentType, Body: buf.Bytes()}, nil
}
