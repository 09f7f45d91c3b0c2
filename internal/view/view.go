// Package view renders the question list page as HTML.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/janisto/question-list/internal/service/question"
)

// FailureMessage is the only content of the failure view.
const FailureMessage = "Failed to load data."

// ContentType is the media type of every rendered view.
const ContentType = "text/html; charset=utf-8"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Listing writes the pagination summary followed by one list entry per item,
// in the order the items appear in page.
func Listing(w io.Writer, page *question.ListingPage) error {
	if page == nil {
		return fmt.Errorf("rendering listing: nil page")
	}
	if err := templates.ExecuteTemplate(w, "listing", page); err != nil {
		return fmt.Errorf("rendering listing: %w", err)
	}
	return nil
}

// Failure writes FailureMessage wrapped in a single div.
func Failure(w io.Writer) error {
	if err := templates.ExecuteTemplate(w, "failure", FailureMessage); err != nil {
		return fmt.Errorf("rendering failure: %w", err)
	}
	return nil
}
