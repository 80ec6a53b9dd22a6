package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-slates/internal/domain/jobscheduler"
	"github.com/riskibarqy/fantasy-slates/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// JobDispatchRecorder persists internal job run records for audit.
type JobDispatchRecorder interface {
	UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error
}

type internalJobRequest struct {
	DispatchID string `json:"dispatch_id"`
}

func (h *Handler) RunSettlementJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettlementJob")
	defer span.End()

	if h.settlementService == nil {
		writeError(ctx, w, fmt.Errorf("%w: settlement service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.settlementService.Run(ctx)
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, failedDispatchEvent("settlement", "/v1/internal/jobs/settlement", req, err))
		h.logger.WarnContext(ctx, "run settlement job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, completedDispatchEvent("settlement", "/v1/internal/jobs/settlement", req))

	writeSuccess(ctx, w, http.StatusOK, result)
}

func failedDispatchEvent(jobName, jobPath string, req internalJobRequest, err error) jobscheduler.DispatchEvent {
	return jobscheduler.DispatchEvent{
		JobName:      jobName,
		JobPath:      jobPath,
		Status:       jobscheduler.StatusFailed,
		Payload:      buildInternalJobPayload(req),
		ErrorMessage: err.Error(),
		OccurredAt:   time.Now().UTC(),
	}
}

func completedDispatchEvent(jobName, jobPath string, req internalJobRequest) jobscheduler.DispatchEvent {
	return jobscheduler.DispatchEvent{
		JobName:    jobName,
		JobPath:    jobPath,
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildInternalJobPayload(req),
		OccurredAt: time.Now().UTC(),
	}
}

func decodeInternalJobRequest(r *http.Request) (internalJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobRequest{}, nil
		}
		return internalJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func (h *Handler) recordInternalJobDispatch(ctx context.Context, req internalJobRequest, event jobscheduler.DispatchEvent) {
	if h.jobDispatchRepo == nil {
		return
	}

	dispatchID := strings.TrimSpace(req.DispatchID)
	if dispatchID == "" {
		dispatchID = buildManualDispatchID(event.JobName, event.OccurredAt)
	}
	event.DispatchID = dispatchID

	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID

	if err := h.jobDispatchRepo.UpsertEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "record internal job dispatch failed",
			"dispatch_id", event.DispatchID,
			"job_name", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}

func buildInternalJobPayload(req internalJobRequest) map[string]any {
	payload := map[string]any{}
	if strings.TrimSpace(req.DispatchID) != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func buildManualDispatchID(jobName string, now time.Time) string {
	jobName = sanitizeDispatchPart(jobName)
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + jobName + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
