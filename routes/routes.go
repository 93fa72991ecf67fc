// Package routes wires the local preview server: it fetches published forms
// from the external API, serves them rendered through the field registry,
// and relays filled-in submissions back. Nothing here stores form data.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formbench/formbench/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/forms/{token}", ViewForm(app))
	root.Post("/forms/{token}", SubmitForm(app))
	root.Post("/preview", PreviewDraft(app))

	return root
}
