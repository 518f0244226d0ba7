package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
)

// SessionUseCase owns session lifecycle: creation, lookup, teardown, and
// per-session settings.
type SessionUseCase struct {
	repo           ports.SessionRepository
	defaultPersona string
	recorder       ports.InsightRecorder
}

func NewSessionUseCase(repo ports.SessionRepository, defaultPersona string, recorder ports.InsightRecorder) *SessionUseCase {
	return &SessionUseCase{repo: repo, defaultPersona: defaultPersona, recorder: recorder}
}

func (uc *SessionUseCase) Create(ctx context.Context) (domain.SessionSnapshot, error) {
	session := domain.NewSession(uuid.NewString(), uc.defaultPersona)
	if err := uc.repo.Put(ctx, session); err != nil {
		return domain.SessionSnapshot{}, err
	}
	uc.trackActiveSessions(ctx)
	return session.Snapshot(), nil
}

func (uc *SessionUseCase) Get(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (uc *SessionUseCase) Delete(ctx context.Context, sessionID string) error {
	if _, err := uc.repo.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.trackActiveSessions(ctx)
	return nil
}

// SetPersona applies a new engine instruction and returns the value actually
// stored, which is the default when the requested persona is blank.
func (uc *SessionUseCase) SetPersona(ctx context.Context, sessionID, persona string) (string, error) {
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	applied := session.SetPersona(persona)
	if err := uc.repo.Put(ctx, session); err != nil {
		return "", err
	}
	return applied, nil
}

func (uc *SessionUseCase) SetFeatureInput(ctx context.Context, sessionID string, feature domain.FeatureID, input string) error {
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := session.SetInput(feature, input); err != nil {
		return err
	}
	return uc.repo.Put(ctx, session)
}

func (uc *SessionUseCase) trackActiveSessions(ctx context.Context) {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		slog.Warn("session_count_failed", "error", err)
		return
	}
	uc.recorder.SetActiveSessions(count)
}
