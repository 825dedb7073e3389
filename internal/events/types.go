// Package events fans world-state mutations out to interested subsystems,
// such as status effects or movement listeners.
package events

import (
	"context"

	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
)

// Listener processes mutations
type Listener interface {
	HandleMutation(ctx context.Context, mutation cast.Mutation) error
	Priority() int
	ID() string
}

// FuncListener adapts a function into a Listener
type FuncListener struct {
	Name  string
	Order int
	Fn    func(ctx context.Context, mutation cast.Mutation) error
}

func (l *FuncListener) HandleMutation(ctx context.Context, mutation cast.Mutation) error {
	return l.Fn(ctx, mutation)
}

func (l *FuncListener) Priority() int { return l.Order }
func (l *FuncListener) ID() string    { return l.Name }
