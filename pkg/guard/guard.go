// Package guard decides whether a unit of UI may be shown to the current actor.
package guard

import (
	"context"
	"fmt"
	"io"

	"github.com/andressep95/hr-service/pkg/rbac"
)

const (
	AccessDeniedMessage = "Access Denied"
	GoBackLabel         = "Go Back"
	LoadingMessage      = "Loading…"
)

// Checker is satisfied by *rbac.Evaluator.
type Checker interface {
	Loading() bool
	Loaded() bool
	HasPermission(ctx context.Context, featureKey string, action rbac.Action) bool
}

type Navigator interface {
	Back()
}

// Renderable is the protected unit.
type Renderable interface {
	Render(w io.Writer) error
}

type RenderFunc func(w io.Writer) error

func (f RenderFunc) Render(w io.Writer) error { return f(w) }

type State int

const (
	StateLoading State = iota
	StateContent
	StateAccessDenied
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateContent:
		return "content"
	case StateAccessDenied:
		return "access_denied"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action is a control offered by the fallback view.
type Action struct {
	Label string
	Do    func()
}

// View is the outcome of a guard evaluation. Exactly one of its branches is
// rendered; there is no partial rendering of the protected unit.
type View struct {
	State   State
	Message string
	Actions []Action

	content Renderable
}

func (v View) Render(w io.Writer) error {
	switch v.State {
	case StateContent:
		return v.content.Render(w)
	case StateLoading:
		_, err := fmt.Fprintln(w, v.Message)
		return err
	default:
		if _, err := fmt.Fprintln(w, v.Message); err != nil {
			return err
		}
		for _, a := range v.Actions {
			if _, err := fmt.Fprintf(w, "[%s]\n", a.Label); err != nil {
				return err
			}
		}
		return nil
	}
}

// Guard wraps content with the capability it requires.
type Guard struct {
	Feature string
	Action  rbac.Action
	Checker Checker
	Nav     Navigator
}

func New(feature string, action rbac.Action, checker Checker, nav Navigator) *Guard {
	return &Guard{Feature: feature, Action: action, Checker: checker, Nav: nav}
}

// Render evaluates the guard once for the current permission state. The
// denied view needs a loaded list; a grant that holds without one, such as the
// company override, renders the content right away.
func (g *Guard) Render(ctx context.Context, content Renderable) View {
	if g.Checker.Loading() {
		return View{State: StateLoading, Message: LoadingMessage}
	}
	if g.Checker.HasPermission(ctx, g.Feature, g.Action) {
		return View{State: StateContent, content: content}
	}
	if !g.Checker.Loaded() {
		return View{State: StateLoading, Message: LoadingMessage}
	}

	back := func() {}
	if g.Nav != nil {
		back = g.Nav.Back
	}
	return View{
		State:   StateAccessDenied,
		Message: AccessDeniedMessage,
		Actions: []Action{{Label: GoBackLabel, Do: back}},
	}
}
