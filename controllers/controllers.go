package controllers

import (
	"net/http"

	"outreach-portal/views"

	"github.com/sirupsen/logrus"
)

// serverError logs the real cause and shows the client a generic page. Raw
// error text never reaches the response.
func serverError(w http.ResponseWriter, err error, context string) {
	logrus.WithError(err).Error(context)
	views.RenderError(w, http.StatusInternalServerError, "An internal error occurred.")
}

func notFound(w http.ResponseWriter) {
	views.RenderError(w, http.StatusNotFound, "The requested record was not found.")
}

// NotFoundHandler renders the same page for unknown routes as for missing
// records, so the two cases cannot be told apart.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notFound(w)
	})
}
