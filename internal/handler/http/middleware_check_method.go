// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/go-chi/chi/v5"
)

// routedMethods are the methods tried when building the Allow header.
var routedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// methodNotAllowed returns the handler registered via
// [chi.Mux.MethodNotAllowed]. It answers 405 with an Allow header listing
// the methods router serves for the requested path.
func methodNotAllowed(router chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// mounted subrouters see only their part of the path, so the full
		// one is matched against the root router
		path := r.URL.Path
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}

		if allowed := allowedMethods(router, path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}

		utils.WriteJSON(w, errorResponse{
			Detail: fmt.Sprintf("Method %q not allowed.", r.Method),
		}, http.StatusMethodNotAllowed)
	}
}

func allowedMethods(router chi.Routes, path string) []string {
	var allowed []string
	for _, method := range routedMethods {
		if router.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, errorResponse{Detail: "Not found."}, http.StatusNotFound)
}
