package http

import (
	"encoding/json"
	"net/http"

	"github.com/declaro/taxsync/internal/app"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/utils"
	"github.com/declaro/taxsync/models"
)

func (h *Handler) applyBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.applyBatch").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	var batchRequest models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		log.Err(err).Str("func", "*Handler.applyBatch").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	response, err := h.services.SyncApplyService.ApplyBatch(ctx, userID, batchRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.applyBatch").Msg("error applying sync batch")
		http.Error(w, app.MsgApplyBatchFailed, statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) getStates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getStates").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	states, err := h.services.SyncApplyService.GetStates(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getStates").Msg("error getting record states")
		http.Error(w, app.MsgGetStatesFailed, statusFromError(err))
		return
	}

	response := models.StatesResponse{
		States: states,
		Length: len(states),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
