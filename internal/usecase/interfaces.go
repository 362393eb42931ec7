package usecase

import (
	"context"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/integration/openai"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/queue"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface

type QueueProducerInterface interface {
	PublishLeadCreated(ctx context.Context, payload queue.LeadCreatedPayload) error
}

// CompletionClient is the hosted chat model, treated as an opaque
// request/response collaborator.
type CompletionClient interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

type EmailService interface {
	SendLeadNotification(to, name, email, phone, address string) error
}
