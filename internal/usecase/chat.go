package usecase

import (
	"context"

	"github.com/horizonenergysouth/horizon-crm/internal/infra/integration/openai"
)

const (
	MaxChatMessages      = 30
	MaxChatMessageLength = 2000
)

// FallbackPhone is offered whenever the assistant can't answer, so a failed
// chat never strands a homeowner.
const FallbackPhone = "(404) 446-6668"

// ChatSystemPrompt encodes the business facts the assistant answers from.
// Maintained by hand alongside the marketing pages; update both together when
// hours, counties or contact details change.
const ChatSystemPrompt = `You are a friendly, helpful assistant for Horizon Energy South, a company that helps Georgia homeowners get FREE home energy upgrades through the Georgia Home Energy Rebates program. Your role is to answer questions about the company, services, eligibility, and next steps. Be concise, warm, and professional. When someone asks about qualifying or applying, encourage them to submit the contact form at horizonenergysouth.com/contact or call (404) 446-6668.

**About Horizon Energy South**
- Founded by Emory University and Georgia Tech alumni. Mission: connect Georgia homeowners with free energy upgrades that improve comfort, reduce costs, and protect the environment.
- Authorized contractor for the Georgia Home Energy Rebates program. They handle the full process from energy audit to final inspection at no cost to qualifying homeowners.
- Values: Community (rooted in GA communities, MLK Service Projects), Quality (BPI and RESNET certified), Sustainability (every home improved reduces carbon).
- Certifications: BPI (Building Performance Institute) and RESNET certified. Industry-standard energy assessment and improvement.

**Services (all can be free for qualifying homeowners)**
1. Home Energy Audits: Thermal imaging, blower door tests, duct assessment, detailed report with recommendations.
2. Weatherization: Air sealing, duct sealing/repair, moisture barriers, ventilation-great for Georgia's humid climate.
3. Insulation: Attic, wall, and crawlspace insulation upgrades; removal when needed.
4. Rebate assistance: Eligibility verification, application help, paperwork, post-upgrade inspection coordination.

**Georgia Home Energy Rebates - Who qualifies**
- Own and occupy a single-family home in Georgia.
- Home in an eligible county.
- Meet household income guidelines.
- Home has not received similar upgrades recently.
Upgrades can be 100% free. Direct people to the Contact page to check eligibility.

**Contact**
- Phone: (404) 446-6668
- Email: info@horizonenergysouth.com
- Hours: Monday-Friday, 9 AM-6 PM
- Service area: Central Georgia (8 counties)

If you don't know something or the question is off-topic, say so politely and suggest they call or use the contact form.`

type ChatUseCase struct {
	Client CompletionClient
}

func NewChatUseCase(client CompletionClient) *ChatUseCase {
	return &ChatUseCase{Client: client}
}

// SanitizeChatMessages keeps only user/assistant turns and caps each turn at
// the maximum length. System messages from the client are dropped; the server
// owns the system prompt.
func SanitizeChatMessages(messages []ChatMessage) []ChatMessage {
	sanitized := []ChatMessage{}
	for _, m := range messages {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		content := m.Content
		if len(content) > MaxChatMessageLength {
			content = content[:MaxChatMessageLength]
		}
		sanitized = append(sanitized, ChatMessage{Role: m.Role, Content: content})
	}
	return sanitized
}

// Execute forwards one sanitized conversation to the completion service and
// returns the single assistant reply.
func (uc *ChatUseCase) Execute(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	if len(input.Messages) == 0 {
		return nil, &DomainError{
			Code:    "EMPTY_CONVERSATION",
			Message: "messages array is required",
		}
	}
	if len(input.Messages) > MaxChatMessages {
		return nil, &DomainError{
			Code:    "CONVERSATION_TOO_LONG",
			Message: "Conversation too long. Please clear the chat and start fresh.",
		}
	}

	sanitized := SanitizeChatMessages(input.Messages)
	if len(sanitized) == 0 {
		return nil, &DomainError{
			Code:    "NO_VALID_MESSAGES",
			Message: "No valid messages provided",
		}
	}

	payload := make([]openai.Message, 0, len(sanitized)+1)
	payload = append(payload, openai.Message{Role: "system", Content: ChatSystemPrompt})
	for _, m := range sanitized {
		payload = append(payload, openai.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := uc.Client.Complete(ctx, payload)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "UPSTREAM_ERROR",
			Message: "Something went wrong. Please try again or call us at " + FallbackPhone + ".",
		}
	}

	return &ChatOutput{Message: reply}, nil
}
