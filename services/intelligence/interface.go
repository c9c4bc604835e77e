package intelligence

import "context"

// Agent is the conversational surface the REPL talks to. One call per
// user turn; the implementation owns tool dispatch and the model loop.
type Agent interface {
	Converse(ctx context.Context, text string) (string, error)
}
