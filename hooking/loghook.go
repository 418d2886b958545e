package hooking

import (
	"fmt"
	"log"
)

// A LogHook prints every hook invocation that passes its filter.
type LogHook struct {
	*log.Logger

	filter func(ctx HookCtx) bool
}

// NewLogHook creates a LogHook that writes to logger. A nil filter accepts
// every position.
func NewLogHook(logger *log.Logger, filter func(ctx HookCtx) bool) *LogHook {
	return &LogHook{
		Logger: logger,
		filter: filter,
	}
}

// Func prints the hook site and the item.
func (h *LogHook) Func(ctx HookCtx) {
	if h.filter != nil && !h.filter(ctx) {
		return
	}

	h.Printf("%s, %s, %s", ctx.Domain.Name(), ctx.Pos.Name, describe(ctx.Item))
}

func describe(item interface{}) string {
	if s, ok := item.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%+v", item)
}
