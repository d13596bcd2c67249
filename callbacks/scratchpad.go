package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aidekit/aidekit/assistants"
	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/tools"
)

var TimeNowFn = time.Now

// RunStats aggregates the counters collected over a single assistant run.
type RunStats struct {
	ChatID string
	RunID  string

	Duration             time.Duration
	AssistantCalls       uint32
	AssistantCallsFailed uint32
	ToolCalls            uint32
	ToolCallsSucceeded   uint32
	ToolCallsFailed      uint32
	ResponseBytes        uint64
	InputTokens          uint64
	OutputTokens         uint64
	TotalTokens          uint64
}

// Scratchpad buffers a transcript per chat and flushes it to the writer,
// followed by a stats summary, when the run ends. Events arriving without
// a chat context are dropped.
type Scratchpad struct {
	out  io.Writer
	mode Mode

	lock sync.Mutex
	runs map[string]*run
}

func NewScratchpad(out io.Writer, mode Mode) *Scratchpad {
	return &Scratchpad{
		out:  out,
		mode: mode,
		runs: make(map[string]*run),
	}
}

func (l *Scratchpad) OnAssistantStart(ctx context.Context, assistant assistants.IAssistant, input string) {
	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return
	}

	l.lock.Lock()
	r := l.runs[chatCtx.GetChatID()]
	if r == nil {
		r = &run{
			stats: RunStats{
				ChatID: chatCtx.GetChatID(),
				RunID:  chatCtx.RunID(),
			},
			chatCtx: chatCtx,
			started: TimeNowFn(),
		}
		l.runs[chatCtx.GetChatID()] = r
		r.print("*** Run Started ***")
	}
	l.lock.Unlock()

	atomic.AddUint32(&r.stats.AssistantCalls, 1)
	r.print(assistant.Name(), "Input:", input)
}

func (l *Scratchpad) OnAssistantEnd(ctx context.Context, assistant assistants.IAssistant, input string, resp *llms.ContentResponse) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}

	atomic.AddUint64(&r.stats.ResponseBytes, llmutils.CountResponseContentSize(resp))
	tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
	atomic.AddUint64(&r.stats.InputTokens, uint64(tokensIn))
	atomic.AddUint64(&r.stats.OutputTokens, uint64(tokensOut))
	atomic.AddUint64(&r.stats.TotalTokens, uint64(tokensTotal))

	if l.mode == ModeVerbose {
		r.print(assistant.Name(), "Output:")
		for _, choice := range resp.Choices {
			if choice.Content != "" {
				r.print(choice.Content)
			}
		}
	}

	l.endRun(r)
}

func (l *Scratchpad) OnAssistantError(ctx context.Context, assistant assistants.IAssistant, input string, err error) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}
	atomic.AddUint32(&r.stats.AssistantCallsFailed, 1)
	r.print(assistant.Name(), "*** Error ***", err.Error())
	l.endRun(r)
}

func (l *Scratchpad) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}
	atomic.AddUint32(&r.stats.ToolCalls, 1)
	r.print(tool.Name(), "*** Tool Start ***")
	r.print(tool.Name(), "Input:", input)
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}
	atomic.AddUint32(&r.stats.ToolCallsSucceeded, 1)
	if l.mode == ModeVerbose {
		r.print(tool.Name(), "Output:", output)
	}
	r.print(tool.Name(), "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	r := l.getRun(ctx)
	if r == nil {
		return
	}
	atomic.AddUint32(&r.stats.ToolCallsFailed, 1)
	r.print(tool.Name(), "*** Tool Error ***", err.Error())
}

func (l *Scratchpad) getRun(ctx context.Context) *run {
	l.lock.Lock()
	defer l.lock.Unlock()

	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return nil
	}
	return l.runs[chatCtx.GetChatID()]
}

// endRun appends the stats summary, removes the run and flushes its
// transcript in a single write, so concurrent chats do not interleave.
func (l *Scratchpad) endRun(r *run) {
	stats := r.stats
	stats.Duration = TimeNowFn().Sub(r.started)

	r.print(fmt.Sprintf("Assistant calls: %d, Failed: %d",
		stats.AssistantCalls,
		stats.AssistantCallsFailed,
	))
	r.print(fmt.Sprintf("Tool calls: %d, Succeeded: %d, Failed: %d",
		stats.ToolCalls,
		stats.ToolCallsSucceeded,
		stats.ToolCallsFailed,
	))
	r.print(fmt.Sprintf("Response bytes: %d, Input tokens: %d, Output tokens: %d, Total tokens: %d",
		stats.ResponseBytes,
		stats.InputTokens,
		stats.OutputTokens,
		stats.TotalTokens,
	))
	r.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	l.lock.Lock()
	delete(l.runs, stats.ChatID)
	if l.out != nil {
		_, _ = l.out.Write(r.transcript())
	}
	l.lock.Unlock()
}

type run struct {
	chatCtx chatmodel.ChatContext
	w       bytes.Buffer
	started time.Time
	lock    sync.Mutex
	stats   RunStats
}

// print writes the entries to the run's transcript.
// The entries are written in the following format:
// timestamp chatID.runID entry entry\n
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := TimeNowFn()
	ts := now.Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.chatCtx.GetChatID())
	_, _ = r.w.WriteString(".")
	_, _ = r.w.WriteString(r.chatCtx.RunID())
	_, _ = r.w.WriteString(" ")

	for i, entry := range entries {
		if i > 0 {
			_, _ = r.w.WriteString(" ")
		}
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}

func (r *run) transcript() []byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.w.Bytes()
}
