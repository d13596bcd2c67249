// Package callbacks provides assistant callback handlers beyond the basic
// ones in the assistants package: a fanout that forwards events to several
// handlers and a scratchpad that records a per chat transcript with run
// statistics.
package callbacks

import (
	"context"

	"github.com/aidekit/aidekit/assistants"
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/tools"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ assistants.Callback = (*Fanout)(nil)
	_ tools.Callback      = (*Fanout)(nil)
	_ assistants.Callback = (*Scratchpad)(nil)
	_ tools.Callback      = (*Scratchpad)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []assistants.Callback
}

func NewFanout(callbacks ...assistants.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback assistants.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnAssistantStart(ctx context.Context, assistant assistants.IAssistant, input string) {
	for _, callback := range l.callbacks {
		callback.OnAssistantStart(ctx, assistant, input)
	}
}

func (l *Fanout) OnAssistantEnd(ctx context.Context, assistant assistants.IAssistant, input string, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnAssistantEnd(ctx, assistant, input, resp)
	}
}

func (l *Fanout) OnAssistantError(ctx context.Context, assistant assistants.IAssistant, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnAssistantError(ctx, assistant, input, err)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, input, err)
	}
}
