package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo  LeadRepositoryInterface
	Queue QueueProducerInterface
}

func NewCreateLeadUseCase(repo LeadRepositoryInterface, producer QueueProducerInterface) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:  repo,
		Queue: producer,
	}
}

// Execute validates the intake submission and creates exactly one lead.
// Validation failure writes nothing; a store failure surfaces as a
// TechnicalError so the form can show its retry message.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	validationErrors := ValidateCreateLeadInput(input)
	if len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Fields:  validationErrors,
		}
	}

	lead := &entity.Lead{
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Address:     strings.TrimSpace(input.Address),
		HomeAge:     strings.TrimSpace(input.HomeAge),
		IsHomeowner: input.IsHomeowner,
		Concerns:    strings.TrimSpace(input.Concerns),

		Status:      entity.StatusNew,
		Notes:       []entity.Note{},
		ActionItems: []entity.ActionItem{},
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to save lead: " + err.Error(),
		}
	}

	// Best effort: the operator notification must never block or fail the
	// homeowner's submission.
	if uc.Queue != nil {
		go func() {
			payload := queue.LeadCreatedPayload{
				LeadID:  lead.ID.Hex(),
				Name:    lead.Name,
				Email:   lead.Email,
				Phone:   lead.Phone,
				Address: lead.Address,
			}
			if err := uc.Queue.PublishLeadCreated(context.Background(), payload); err != nil {
				log.Printf("[intake] failed to publish lead created event: %v", err)
			}
		}()
	}

	return &CreateLeadOutput{
		ID:     lead.ID.Hex(),
		Status: string(lead.Status),
		Msg:    "Thank you! We'll be in touch within 1 business day.",
	}, nil
}
