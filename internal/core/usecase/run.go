package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
)

// RunFeatureUseCase executes one analysis feature against the loaded
// document and settles the outcome into the session's result slot.
type RunFeatureUseCase struct {
	repo     ports.SessionRepository
	engine   ports.InsightEngine
	events   ports.EventPublisher
	recorder ports.InsightRecorder
}

func NewRunFeatureUseCase(repo ports.SessionRepository, engine ports.InsightEngine, events ports.EventPublisher, recorder ports.InsightRecorder) *RunFeatureUseCase {
	return &RunFeatureUseCase{repo: repo, engine: engine, events: events, recorder: recorder}
}

// Run builds the prompt under the session lock, calls the engine with the
// session unlocked, and applies the outcome through the version guard. When
// the document changed mid-run the outcome is discarded and the caller gets
// a precondition error; the slot keeps whatever the new document state put
// there. An engine failure settles into an error slot and is also returned,
// so transports can map it while the session keeps the detail.
func (uc *RunFeatureUseCase) Run(ctx context.Context, sessionID string, feature domain.FeatureID, input string) (domain.FeatureResult, error) {
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.FeatureResult{}, err
	}
	run, err := session.BeginFeatureRun(feature, input)
	if err != nil {
		return domain.FeatureResult{}, err
	}

	started := time.Now()
	content, engineErr := uc.engine.Generate(ctx, run.Persona, run.Prompt, run.Params)
	duration := time.Since(started)

	result, applied := session.CompleteFeatureRun(run, content, engineErr)
	if !applied {
		uc.recorder.RecordStaleDiscard(string(feature))
		return domain.FeatureResult{}, domain.WrapError(domain.ErrPreconditionViolation, "apply feature result", errors.New("document changed while the feature was running"))
	}
	if err := uc.repo.Put(ctx, session); err != nil {
		return domain.FeatureResult{}, err
	}

	status := "ok"
	if engineErr != nil {
		status = "error"
	}
	uc.recorder.RecordFeatureRun(string(feature), status, duration)
	uc.publishCompleted(ctx, sessionID, run, result)
	return result, engineErr
}

// Result reads a feature's slot without triggering a run.
func (uc *RunFeatureUseCase) Result(ctx context.Context, sessionID string, feature domain.FeatureID) (domain.FeatureResult, error) {
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.FeatureResult{}, err
	}
	return session.Result(feature)
}

func (uc *RunFeatureUseCase) publishCompleted(ctx context.Context, sessionID string, run domain.FeatureRun, result domain.FeatureResult) {
	if uc.events == nil {
		return
	}
	event := domain.FeatureCompletedEvent{
		SessionID: sessionID,
		Feature:   run.Feature,
		Status:    result.Status,
		Version:   run.Version,
		At:        result.GeneratedAt,
	}
	if err := uc.events.PublishFeatureCompleted(ctx, event); err != nil {
		slog.Warn("event_publish_failed", "event", "feature_completed", "session_id", sessionID, "error", err)
	}
}
