package assistants

import (
	"context"

	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "assistants")

// IAssistant is the interface of a conversational agent.
type IAssistant interface {
	// Name returns the name of the Assistant.
	Name() string
	// Description returns the description of the Assistant, to be used in the
	// prompt of other Assistants or LLMs.
	Description() string

	// Run executes one turn of the conversation identified by chatID and
	// returns the final text of the answer.
	Run(ctx context.Context, chatID, message string) (string, error)
}

// Callback receives notifications around assistant runs and tool executions.
type Callback interface {
	tools.Callback
	OnAssistantStart(ctx context.Context, assistant IAssistant, input string)
	OnAssistantEnd(ctx context.Context, assistant IAssistant, input string, resp *llms.ContentResponse)
	OnAssistantError(ctx context.Context, assistant IAssistant, input string, err error)
}
