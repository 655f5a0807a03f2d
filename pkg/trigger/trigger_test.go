package trigger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowdeck/pkg/trigger"
)

type nopChecker struct{}

func (nopChecker) Eval() (bool, error) { return false, nil }

type nopAction struct{}

func (nopAction) Run() error { return nil }

func checkerFactory(map[string]any) (trigger.Checker, error) { return nopChecker{}, nil }
func actionFactory(map[string]any) (trigger.Action, error)   { return nopAction{}, nil }

func TestRegisterChecker(t *testing.T) {
	t.Parallel()

	tc := trigger.NewContext(nil)

	require.NoError(t, tc.RegisterChecker("time", "*/5 * * * *", checkerFactory))
	require.NoError(t, tc.RegisterChecker("execution", "", checkerFactory))

	_, ok := tc.Checker("time")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"time", "execution"}, tc.CheckerTypes())
}

func TestRegisterCheckerDuplicate(t *testing.T) {
	t.Parallel()

	tc := trigger.NewContext(nil)
	require.NoError(t, tc.RegisterChecker("time", "", checkerFactory))
	require.ErrorIs(t, tc.RegisterChecker("time", "", checkerFactory), trigger.ErrDuplicate)
}

func TestRegisterCheckerBadSchedule(t *testing.T) {
	t.Parallel()

	tc := trigger.NewContext(nil)
	err := tc.RegisterChecker("time", "every five minutes", checkerFactory)
	require.ErrorIs(t, err, trigger.ErrBadSchedule)

	_, ok := tc.Checker("time")
	require.False(t, ok)
}

func TestRegisterAction(t *testing.T) {
	t.Parallel()

	tc := trigger.NewContext(nil)
	require.NoError(t, tc.RegisterAction("execute-flow", actionFactory))
	require.ErrorIs(t, tc.RegisterAction("execute-flow", actionFactory), trigger.ErrDuplicate)

	f, ok := tc.Action("execute-flow")
	require.True(t, ok)

	a, err := f(nil)
	require.NoError(t, err)
	require.NoError(t, a.Run())
}
