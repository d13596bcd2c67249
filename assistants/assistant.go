package assistants

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/metricskey"
	"github.com/aidekit/aidekit/pkg/prompts"
	"github.com/aidekit/aidekit/store"
	"github.com/aidekit/aidekit/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

// DefaultSystemPrompt is the system prompt template used when none is provided.
const DefaultSystemPrompt = `You are a helpful AI assistant with access to tools for math, market data, news, music generation, data analysis and web access.
The current date is {{ .Date }}.

Answer the user's question using the available tools when they apply, and answer directly otherwise.
When a tool returns an error, report it to the user instead of guessing.

## AVAILABLE TOOLS
{{ .Tools }}`

// maxLoadedHistory bounds the stored messages loaded into a run.
// Matches the retention window of the Redis store.
const maxLoadedHistory = 50

// maxConsecutiveNotFound bounds unknown tool calls before the run is aborted.
const maxConsecutiveNotFound = 3

// Assistant drives a chat model in a tool-calling loop. It loads the prior
// conversation from the store, sends the user message together with the tool
// definitions, executes the tool calls the model requests, and repeats until
// the model produces a text answer.
type Assistant struct {
	llm llms.Model

	registry    *tools.Registry
	llmToolDefs []llms.Tool

	cfg         *Config
	name        string
	description string
	sysprompt   prompts.Formatter
}

var _ IAssistant = (*Assistant)(nil)

// NewAssistant returns an Assistant over the given chat model.
func NewAssistant(llmModel llms.Model, options ...Option) *Assistant {
	return &Assistant{
		cfg:         NewConfig(options...),
		llm:         llmModel,
		registry:    tools.NewRegistry(),
		name:        "Assistant",
		description: "An AI assistant that can perform various tasks.",
		sysprompt:   prompts.NewPromptTemplate(DefaultSystemPrompt, []string{"Date", "Tools"}),
	}
}

// WithName sets the name of the Assistant.
func (a *Assistant) WithName(name string) *Assistant {
	a.name = name
	return a
}

// WithDescription sets the description of the Assistant.
func (a *Assistant) WithDescription(description string) *Assistant {
	a.description = description
	return a
}

// WithSystemPrompt sets the system prompt template. The template may use the
// Date and Tools variables.
func (a *Assistant) WithSystemPrompt(sysprompt prompts.Formatter) *Assistant {
	a.sysprompt = sysprompt
	return a
}

// Name returns the name of the Assistant.
func (a *Assistant) Name() string {
	return a.name
}

// Description returns the description of the Assistant.
func (a *Assistant) Description() string {
	return a.description
}

// GetTools returns the registered tools.
func (a *Assistant) GetTools() []tools.ITool {
	return a.registry.List()
}

// WithTools adds new tools to the Assistant, existing tools are not replaced.
func (a *Assistant) WithTools(list ...tools.ITool) *Assistant {
	for _, tool := range list {
		if err := a.registry.Register(tool); err != nil {
			logger.KV(xlog.WARNING,
				"status", "tool_already_registered",
				"tool", tool.Name(),
			)
			continue
		}
		a.llmToolDefs = append(a.llmToolDefs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return a
}

// GetSystemPrompt renders the system prompt for the Assistant.
func (a *Assistant) GetSystemPrompt() (string, error) {
	prompt, err := a.sysprompt.Format(map[string]any{
		"Date":  time.Now().Format("January 2, 2006"),
		"Tools": tools.GetDescriptions(a.registry.List()...),
	})
	if err != nil {
		return "", errors.WithMessage(err, "failed to format system prompt")
	}
	return strings.TrimRight(prompt, "\n"), nil
}

// Run executes one turn of the conversation identified by chatID and returns
// the final text of the answer. An empty chatID starts a new conversation.
func (a *Assistant) Run(ctx context.Context, chatID, message string) (string, error) {
	started := time.Now()
	if chatID == "" {
		chatID = chatmodel.NewChatID()
	}
	// The chat context is attached before the first callback fires, so
	// handlers can key their state by chat ID.
	if chatmodel.GetChatContext(ctx) == nil {
		ctx = chatmodel.WithChatContext(ctx, chatmodel.NewChatContext(chatID))
	}
	if a.cfg.CallbackHandler != nil {
		a.cfg.CallbackHandler.OnAssistantStart(ctx, a, message)
	}

	resp, result, err := a.run(ctx, chatID, message)
	metricskey.PerfAgentRun.MeasureSince(started, a.name)
	if err != nil {
		metricskey.StatsAgentRunsFailed.IncrCounter(1, a.name)
		if a.cfg.CallbackHandler != nil {
			a.cfg.CallbackHandler.OnAssistantError(ctx, a, message, err)
		}
		return "", err
	}

	metricskey.StatsAgentRunsSucceeded.IncrCounter(1, a.name)
	if a.cfg.CallbackHandler != nil {
		a.cfg.CallbackHandler.OnAssistantEnd(ctx, a, message, resp)
	}
	return result, nil
}

func (a *Assistant) run(ctx context.Context, chatID, message string) (*llms.ContentResponse, string, error) {
	if message == "" {
		return nil, "", errors.New("empty message")
	}

	systemPrompt, err := a.GetSystemPrompt()
	if err != nil {
		return nil, "", err
	}

	messageHistory := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, systemPrompt),
	}

	var history store.ChatHistory
	if a.cfg.Store != nil {
		history = a.cfg.Store.History(chatID)
		prev, err := history.Messages(ctx)
		if err != nil {
			return nil, "", errors.WithMessage(err, "failed to load chat history")
		}
		if len(prev) > maxLoadedHistory {
			prev = prev[len(prev)-maxLoadedHistory:]
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"assistant", a.name,
			"chat_id", chatID,
			"message_history", len(prev),
		)
		messageHistory = append(messageHistory, prev...)
	}

	userMessage := llms.MessageFromTextParts(llms.RoleHuman, message)
	messageHistory = append(messageHistory, userMessage)
	runMessages := []llms.Message{userMessage}

	callOpts := a.cfg.GetCallOptions()
	if len(a.llmToolDefs) > 0 {
		if !a.llm.GetProviderType().Supports(llms.CapabilityFunctionCalling) {
			return nil, "", errors.Newf("assistant %s: the LLM does not support function calling", a.name)
		}
		callOpts = append(callOpts, llms.WithTools(a.llmToolDefs))
	}

	assistantName := a.name
	modelName := values.StringsCoalesce(a.cfg.Model, string(a.llm.GetProviderType()))

	bytesLimit := uint64(values.NumbersCoalesce(a.cfg.MaxContentSize, DefaultMaxContentSize))
	toolsLimit := values.NumbersCoalesce(a.cfg.MaxToolCalls, DefaultMaxToolCalls)
	maxMessages := values.NumbersCoalesce(a.cfg.MaxMessages, DefaultMaxMessages)

	var resp *llms.ContentResponse
	var totalToolCalls int
	retryCount := 0
	consecutiveNotFound := 0
	for {
		if len(messageHistory) >= maxMessages {
			return nil, "", errors.Newf("assistant %s: the messages count exceeded limit", assistantName)
		}
		if size := llmutils.CountMessagesContentSize(messageHistory); size > bytesLimit {
			return nil, "", errors.Newf("assistant %s: the content size exceeded limit", assistantName)
		}

		metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messageHistory)), assistantName, modelName)

		resp, err = a.llm.GenerateContent(ctx, messageHistory, callOpts...)
		if err != nil {
			return nil, "", errors.WithMessage(err, "failed to generate content from LLM")
		}

		if len(resp.Choices) == 0 {
			retryCount++
			if retryCount >= DefaultMaxRetries {
				return nil, "", errors.Newf("assistant %s: LLM returned empty response after %d retries", assistantName, retryCount)
			}
			logger.ContextKV(ctx, xlog.WARNING,
				"assistant", assistantName,
				"status", "retrying_empty_response",
				"retry_count", retryCount,
			)
			continue
		}

		executed, notFound, toolMessages := a.executeToolCalls(ctx, resp)
		messageHistory = append(messageHistory, toolMessages...)
		runMessages = append(runMessages, toolMessages...)
		if executed == 0 {
			break
		}

		if notFound > 0 {
			consecutiveNotFound += notFound
		} else {
			consecutiveNotFound = 0
		}
		if consecutiveNotFound > maxConsecutiveNotFound {
			return nil, "", errors.Newf("assistant %s: too many unknown tool calls", assistantName)
		}

		totalToolCalls += executed
		if totalToolCalls >= toolsLimit {
			return nil, "", errors.Newf("assistant %s: the tool calls limit is exceeded", assistantName)
		}
	}

	result := resp.Choices[0].Content
	if len(resp.Choices) > 1 {
		// Combine the content of multiple choices.
		var combined strings.Builder
		for i, choice := range resp.Choices {
			if i > 0 {
				combined.WriteString("\n\n")
			}
			combined.WriteString(choice.Content)
		}
		result = combined.String()
	}

	runMessages = append(runMessages, llms.MessageFromTextParts(llms.RoleAI, result))

	if history != nil && !a.cfg.SkipMessageHistory {
		if err := history.Add(ctx, runMessages...); err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"assistant", assistantName,
				"chat_id", chatID,
				"status", "failed_to_store_messages",
				"err", err.Error(),
			)
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"assistant", assistantName,
			"chat_id", chatID,
			"status", "added_message_history",
			"messages", len(runMessages),
			"human", slices.StringUpto(message, 64),
			"ai", slices.StringUpto(result, 64),
		)
	}

	return resp, result, nil
}

type toolCallResult struct {
	response string
	notFound bool
	err      error
}

// executeToolCalls executes the tool calls requested in the response,
// concurrently, and returns the messages to append to the conversation. Tool
// failures are reported back to the LLM as tool responses, not as run errors.
func (a *Assistant) executeToolCalls(ctx context.Context, resp *llms.ContentResponse) (int, int, []llms.Message) {
	var toolCalls []llms.ToolCall
	var msgs []llms.Message

	for _, choice := range resp.Choices {
		var choiceCalls []llms.ToolCall
		for i, toolCall := range choice.ToolCalls {
			if toolCall.FunctionCall == nil {
				continue
			}
			if toolCall.ID == "" {
				toolCall.ID = fmt.Sprintf("%s_%d", toolCall.FunctionCall.Name, i)
			}
			toolCall.Type = values.StringsCoalesce(toolCall.Type, "function")
			choiceCalls = append(choiceCalls, toolCall)

			logger.ContextKV(ctx, xlog.DEBUG,
				"assistant", a.name,
				"status", "tool_call_found",
				"tool_call_id", toolCall.ID,
				"tool", toolCall.FunctionCall.Name,
			)
		}
		if len(choiceCalls) == 0 {
			continue
		}
		toolCalls = append(toolCalls, choiceCalls...)
		msgs = append(msgs, llms.MessageFromToolCalls(llms.RoleAI, choiceCalls...))
	}

	if len(toolCalls) == 0 {
		return 0, 0, nil
	}

	// Each goroutine writes its own slot, so the responses keep the order in
	// which the model requested the calls.
	results := make([]toolCallResult, len(toolCalls))
	var wg sync.WaitGroup
	wg.Add(len(toolCalls))
	for i, toolCall := range toolCalls {
		go func(index int, tc llms.ToolCall) {
			defer wg.Done()
			results[index] = a.executeToolCall(ctx, tc)
		}(i, toolCall)
	}
	wg.Wait()

	notFound := 0
	for i, result := range results {
		content := result.response
		if result.notFound {
			notFound++
		}
		if result.err != nil {
			content = fmt.Sprintf("Tool call failed: %s", result.err.Error())
			logger.ContextKV(ctx, xlog.WARNING,
				"assistant", a.name,
				"status", "tool_call_failed",
				"tool", toolCalls[i].FunctionCall.Name,
				"err", result.err.Error(),
			)
		}
		msgs = append(msgs, llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: toolCalls[i].ID,
			Name:       toolCalls[i].FunctionCall.Name,
			Content:    content,
		}))
	}

	return len(toolCalls), notFound, msgs
}

func (a *Assistant) executeToolCall(ctx context.Context, tc llms.ToolCall) toolCallResult {
	toolName := tc.FunctionCall.Name
	toolArgs := tc.FunctionCall.Arguments

	tool, ok := a.registry.Get(toolName)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, toolName)

		availableTools := strings.Join(a.registry.Names(), ", ")
		logger.ContextKV(ctx, xlog.WARNING,
			"assistant", a.name,
			"status", "tool_not_found",
			"tool", toolName,
			"available_tools", availableTools,
		)
		return toolCallResult{
			response: fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s", toolName, availableTools),
			notFound: true,
		}
	}

	if a.cfg.CallbackHandler != nil {
		a.cfg.CallbackHandler.OnToolStart(ctx, tool, toolArgs)
	}

	started := time.Now()
	res, err := tool.Call(ctx, toolArgs)
	metricskey.PerfToolCall.MeasureSince(started, toolName)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)
		if a.cfg.CallbackHandler != nil {
			a.cfg.CallbackHandler.OnToolError(ctx, tool, toolArgs, err)
		}
		if errors.Is(err, chatmodel.ErrFailedUnmarshalInput) {
			return toolCallResult{
				response: llmutils.AddComment("assistant", a.name, "error", "Failed to unmarshal input, check the JSON schema and try again."),
			}
		}
		return toolCallResult{
			err: errors.WithMessagef(err, "failed to call tool %s", toolName),
		}
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)
	if a.cfg.CallbackHandler != nil {
		a.cfg.CallbackHandler.OnToolEnd(ctx, tool, toolArgs, res)
	}
	return toolCallResult{response: res}
}
