package guard_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andressep95/hr-service/pkg/guard"
	"github.com/andressep95/hr-service/pkg/rbac"
	"github.com/andressep95/hr-service/pkg/session"
	"github.com/andressep95/hr-service/pkg/storage"
)

type staticSource []rbac.PermissionRecord

func (s staticSource) FetchPermissions(context.Context, string) ([]rbac.PermissionRecord, error) {
	return s, nil
}

type stubChecker struct {
	loading bool
	loaded  bool
	allowed bool
}

func (s stubChecker) Loading() bool { return s.loading }

func (s stubChecker) Loaded() bool { return s.loaded }

func (s stubChecker) HasPermission(context.Context, string, rbac.Action) bool { return s.allowed }

type backRecorder struct{ calls int }

func (b *backRecorder) Back() { b.calls++ }

var secret = guard.RenderFunc(func(w io.Writer) error {
	_, err := io.WriteString(w, "salary table\n")
	return err
})

func render(t *testing.T, v guard.View) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	return buf.String()
}

func TestGuard_Loading(t *testing.T) {
	t.Parallel()

	g := guard.New("salary_view", rbac.ActionView, stubChecker{loading: true, allowed: true}, nil)
	v := g.Render(context.Background(), secret)

	require.Equal(t, guard.StateLoading, v.State)
	require.NotContains(t, render(t, v), "salary table")
}

func TestGuard_AccessDenied(t *testing.T) {
	t.Parallel()

	nav := &backRecorder{}
	g := guard.New("salary_view", rbac.ActionEdit, stubChecker{loaded: true}, nav)
	v := g.Render(context.Background(), secret)

	require.Equal(t, guard.StateAccessDenied, v.State)
	require.Equal(t, "Access Denied", v.Message)
	require.Len(t, v.Actions, 1)
	require.Equal(t, "Go Back", v.Actions[0].Label)

	out := render(t, v)
	require.Contains(t, out, "Access Denied")
	require.NotContains(t, out, "salary table")

	v.Actions[0].Do()
	require.Equal(t, 1, nav.calls)
}

func TestGuard_WithEvaluator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := storage.NewMemory()
	company := session.NewStore(session.ClassCompany, mem)

	records := staticSource{{FeatureKey: "salary_view", CanView: true}}
	ev := rbac.NewEvaluator(records, company, nil)

	view := guard.New("salary_view", rbac.ActionView, ev, nil)
	edit := guard.New("salary_view", rbac.ActionEdit, ev, nil)

	// Nothing loaded yet.
	require.Equal(t, guard.StateLoading, view.Render(ctx, secret).State)

	require.NoError(t, ev.Load(ctx, "e1"))
	require.Equal(t, "salary table\n", render(t, view.Render(ctx, secret)))
	require.Equal(t, guard.StateAccessDenied, edit.Render(ctx, secret).State)

	require.NoError(t, company.SetToken(ctx, "placeholder_token"))
	require.Equal(t, guard.StateContent, edit.Render(ctx, secret).State)
}

func TestGuard_NeverLoaded(t *testing.T) {
	t.Parallel()

	nav := &backRecorder{}
	g := guard.New("employees", rbac.ActionDelete, stubChecker{}, nav)
	v := g.Render(context.Background(), secret)

	require.Equal(t, guard.StateLoading, v.State)
	require.Equal(t, guard.LoadingMessage, v.Message)
	require.Empty(t, v.Actions)
	require.Zero(t, nav.calls)
}

func TestGuard_CompanyOverrideBeforeLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	company := session.NewStore(session.ClassCompany, storage.NewMemory())
	require.NoError(t, company.SetToken(ctx, "company-token"))

	ev := rbac.NewEvaluator(staticSource{}, company, nil)
	v := guard.New("salary_view", rbac.ActionDelete, ev, nil).Render(ctx, secret)

	require.Equal(t, guard.StateContent, v.State)
	require.False(t, ev.Loaded())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "access_denied", guard.StateAccessDenied.String())
	require.Equal(t, "State(9)", guard.State(9).String())
}
