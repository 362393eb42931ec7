package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
)

// UpdateLeadUseCase covers every mutation the triage detail panel performs:
// status transitions, notes and action items. All writes are targeted partial
// updates; the live feed pushes the confirmed state back to the dashboard, so
// nothing is applied optimistically.
type UpdateLeadUseCase struct {
	Repo LeadRepositoryInterface
}

func NewUpdateLeadUseCase(repo LeadRepositoryInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Repo: repo}
}

// SetStatus transitions a lead. The repository stamps updated_at on every
// transition and last_contacted_at only when moving to "contacted".
func (uc *UpdateLeadUseCase) SetStatus(ctx context.Context, leadID string, status entity.LeadStatus) error {
	if !status.Valid() {
		return &DomainError{
			Code:    "INVALID_STATUS",
			Message: "unknown status: " + string(status),
		}
	}
	if err := uc.Repo.UpdateStatus(ctx, leadID, status); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

func (uc *UpdateLeadUseCase) AddNote(ctx context.Context, leadID, text string) (*entity.Note, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &DomainError{Code: "EMPTY_TEXT", Message: "note text is required"}
	}

	note := entity.Note{
		ID:        uuid.New().String(),
		Text:      trimmed,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Repo.AddNote(ctx, leadID, note); err != nil {
		return nil, wrapStoreError(err)
	}
	return &note, nil
}

func (uc *UpdateLeadUseCase) DeleteNote(ctx context.Context, leadID, noteID string) error {
	if err := uc.Repo.DeleteNote(ctx, leadID, noteID); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

func (uc *UpdateLeadUseCase) AddActionItem(ctx context.Context, leadID, text string) (*entity.ActionItem, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &DomainError{Code: "EMPTY_TEXT", Message: "action item text is required"}
	}

	item := entity.ActionItem{
		ID:        uuid.New().String(),
		Text:      trimmed,
		Completed: false,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Repo.AddActionItem(ctx, leadID, item); err != nil {
		return nil, wrapStoreError(err)
	}
	return &item, nil
}

func (uc *UpdateLeadUseCase) SetActionItemCompleted(ctx context.Context, leadID, itemID string, completed bool) error {
	if err := uc.Repo.SetActionItemCompleted(ctx, leadID, itemID, completed); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

func (uc *UpdateLeadUseCase) DeleteActionItem(ctx context.Context, leadID, itemID string) error {
	if err := uc.Repo.DeleteActionItem(ctx, leadID, itemID); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

func wrapStoreError(err error) error {
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		return &DomainError{Code: "LEAD_NOT_FOUND", Message: "lead not found"}
	case errors.Is(err, entity.ErrInvalidLeadID):
		return &DomainError{Code: "INVALID_LEAD_ID", Message: "invalid lead id"}
	default:
		return &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to update lead: " + err.Error(),
		}
	}
}
