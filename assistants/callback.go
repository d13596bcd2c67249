package assistants

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/tools"
	"github.com/effective-security/xlog"
)

// NoopCallback does nothing.
type NoopCallback struct{}

func NewNoopCallback() *NoopCallback {
	return &NoopCallback{}
}

var _ Callback = (*NoopCallback)(nil)

func (l *NoopCallback) OnAssistantStart(ctx context.Context, assistant IAssistant, input string) {}
func (l *NoopCallback) OnAssistantEnd(ctx context.Context, assistant IAssistant, input string, resp *llms.ContentResponse) {
}
func (l *NoopCallback) OnAssistantError(ctx context.Context, assistant IAssistant, input string, err error) {
}
func (l *NoopCallback) OnToolStart(ctx context.Context, tool tools.ITool, input string)            {}
func (l *NoopCallback) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
}
func (l *NoopCallback) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {}

// LogHandler prints every event to the Writer. Writes are serialized;
// concurrent chats share the one Writer.
type LogHandler struct {
	Out io.Writer

	lock sync.Mutex
}

func NewLogHandler(out io.Writer) *LogHandler {
	return &LogHandler{Out: out}
}

var _ Callback = (*LogHandler)(nil)

func (l *LogHandler) OnAssistantStart(ctx context.Context, assistant IAssistant, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Assistant Start: %s\n", assistant.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *LogHandler) OnAssistantEnd(ctx context.Context, assistant IAssistant, input string, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Assistant End: %s\n", assistant.Name())
	for _, choice := range resp.Choices {
		if choice.Content != "" {
			fmt.Fprintln(l.Out, choice.Content)
		}
	}
}

func (l *LogHandler) OnAssistantError(ctx context.Context, assistant IAssistant, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Assistant Error: %s: %s\n", assistant.Name(), err.Error())
}

func (l *LogHandler) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s\n", tool.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *LogHandler) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s\n", tool.Name())
	fmt.Fprintf(l.Out, "Output: %s\n", output)
}

func (l *LogHandler) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s: %s\n", tool.Name(), err.Error())
}

// PackageLoggerCallback logs the events with the given package logger,
// tagging each entry with the chat ID from the context.
type PackageLoggerCallback struct {
	logger *xlog.PackageLogger
}

func NewPackageLoggerCallback(logger *xlog.PackageLogger) *PackageLoggerCallback {
	return &PackageLoggerCallback{logger: logger}
}

var _ Callback = (*PackageLoggerCallback)(nil)

func (l *PackageLoggerCallback) OnAssistantStart(ctx context.Context, assistant IAssistant, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "assistant_start",
		"assistant", assistant.Name(),
		"chat", chatmodel.GetChatID(ctx),
		"input", input,
	)
}

func (l *PackageLoggerCallback) OnAssistantEnd(ctx context.Context, assistant IAssistant, input string, resp *llms.ContentResponse) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "assistant_end",
		"assistant", assistant.Name(),
		"chat", chatmodel.GetChatID(ctx),
	)
	for _, choice := range resp.Choices {
		if choice.Content != "" {
			l.logger.ContextKV(ctx, xlog.DEBUG, "result", choice.Content)
		}
	}
}

func (l *PackageLoggerCallback) OnAssistantError(ctx context.Context, assistant IAssistant, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "assistant_error",
		"assistant", assistant.Name(),
		"chat", chatmodel.GetChatID(ctx),
		"err", err.Error(),
	)
}

func (l *PackageLoggerCallback) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
		"chat", chatmodel.GetChatID(ctx),
		"input", input,
	)
}

func (l *PackageLoggerCallback) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"chat", chatmodel.GetChatID(ctx),
		"output", output,
	)
}

func (l *PackageLoggerCallback) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"chat", chatmodel.GetChatID(ctx),
		"err", err.Error(),
	)
}
