// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

// Tags and ingredients share the same endpoints and differ only in kind, so
// the handlers below are built per kind.

func (h *Handler) listAttributes(kind models.AttributeKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ownerID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		assignedOnly, err := parseFlag("assigned_only", r.URL.Query().Get("assigned_only"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		attributes, err := h.services.AttributeService.ListAttributes(r.Context(), models.AttributeFilter{
			Kind:         kind,
			UserID:       userID,
			AssignedOnly: assignedOnly,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		if attributes == nil {
			attributes = []models.Attribute{}
		}
		utils.WriteJSON(w, attributes, http.StatusOK)
	}
}

func (h *Handler) getAttribute(kind models.AttributeKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, err := ownerAndID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		attribute, err := h.services.AttributeService.GetAttribute(r.Context(), kind, userID, id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, attribute, http.StatusOK)
	}
}

func (h *Handler) updateAttribute(kind models.AttributeKind, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, err := ownerAndID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var update models.AttributeUpdate
		if err = h.decodeBody(w, r, &update); err != nil {
			writeError(w, r, err)
			return
		}

		attribute, err := h.services.AttributeService.UpdateAttribute(r.Context(), kind, userID, id, update, partial)
		if err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, attribute, http.StatusOK)
	}
}

func (h *Handler) deleteAttribute(kind models.AttributeKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, err := ownerAndID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err = h.services.AttributeService.DeleteAttribute(r.Context(), kind, userID, id); err != nil {
			writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
