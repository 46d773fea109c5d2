package handlers

import (
	"net/http"

	"github.com/jason-s-yu/solitaire/internal/navigation"
)

// MenuHandler serves the home menu so clients can render it and route from it.
func MenuHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, navigation.HomeMenu())
}
