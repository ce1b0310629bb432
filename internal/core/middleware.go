package core

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Middleware wraps a command (logging, panic isolation). The wrapped type
// remains a Command; Blockable methods delegate to the inner command so the
// evaluator sees the original policy.
type Middleware func(Command) Command

// ApplyMiddlewares wraps cmd with each middleware in turn; the last in the
// list becomes the outermost wrapper.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

type wrappedCommand struct {
	Command
	wrap func(ctx *Context) error
}

func (w *wrappedCommand) Run(ctx *Context) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// WithRecover wraps a command so a panic in its body is logged and turned
// into an error instead of escaping the dispatch boundary.
func WithRecover() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) (err error) {
				defer func() {
					if r := recover(); r != nil {
						slog.Error("command panicked",
							"command", cmd.Name(),
							"chat", ctx.Chat.JID,
							"stack", string(debug.Stack()))
						err = fmt.Errorf("command %s panicked: %v", cmd.Name(), r)
					}
				}()
				return cmd.Run(ctx)
			},
		}
	}
}

// CommandLogSink records executed commands, e.g. into the per-chat history.
type CommandLogSink interface {
	LogCommand(chat JID, user JID, username, command, param string) error
}

// WithCommandLog wraps a command to append each execution to the sink.
func WithCommandLog(sink CommandLogSink) Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				err := cmd.Run(ctx)
				if sink != nil {
					if e := sink.LogCommand(ctx.Chat.JID, ctx.Sender.JID, ctx.Sender.Name, cmd.Name(), ctx.Body); e != nil {
						slog.Warn("failed to log command", "command", cmd.Name(), "error", e)
					}
				}
				return err
			},
		}
	}
}
