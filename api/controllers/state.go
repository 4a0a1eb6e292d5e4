package controllers

import (
	"net/http"

	"github.com/angelmondragon/foodcart-engine/api/responses"
)

// State returns the full engine snapshot.
func State(eng Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, eng.Snapshot())
	}
}
