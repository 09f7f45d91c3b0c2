// Package routes wires every huma operation of the server.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/question-list/internal/http/web/questions"
	"github.com/janisto/question-list/internal/service/question"
)

// Register wires all huma operations into the provided API.
func Register(api huma.API, questionService question.Service) {
	questions.Register(api, questionService)
}
