package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-slates/internal/usecase"
)

type submitLineupRequest struct {
	SlateID   string   `json:"slateId"`
	PlayerIDs []string `json:"playerIds" validate:"required,len=11,dive,required"`
	CaptainID string   `json:"captainId" validate:"required"`
}

func (h *Handler) GetMyLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	slateID := r.PathValue("slateID")
	item, exists, err := h.lineupService.GetBySlateForUser(ctx, principal.UserID, slateID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "slate_id", slateID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}

func (h *Handler) SubmitLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	slateID := r.PathValue("slateID")
	var req submitLineupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if req.SlateID == "" {
		req.SlateID = slateID
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.SlateID != slateID {
		writeError(ctx, w, fmt.Errorf("%w: slate id mismatch between path and payload", usecase.ErrInvalidInput))
		return
	}

	item, err := h.lineupService.Submit(ctx, usecase.SubmitLineupInput{
		UserID:    principal.UserID,
		UserEmail: principal.Email,
		SlateID:   slateID,
		PlayerIDs: req.PlayerIDs,
		CaptainID: req.CaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit lineup failed", "slate_id", slateID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}
