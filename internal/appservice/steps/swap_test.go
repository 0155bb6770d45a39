package steps

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewright/internal/appservice"
	"sitewright/internal/wizard"
)

func runSwap(t *testing.T, svc *fakeService, state *SwapState) *wizard.Result[SwapState] {
	t.Helper()
	var buf bytes.Buffer
	flow := NewSwapFlow(svc)
	engine := wizard.New(context.Background(), state, wizard.NewWriter(&buf, "Swap slots"), flow.Steps()...)
	return engine.Run()
}

func TestSwapFlow_Completes(t *testing.T) {
	sc := &script{
		selects:  []answer[string]{{value: "staging"}, {value: "production"}},
		confirms: []answer[bool]{{value: true}},
	}
	sc.install(t)

	svc := &fakeService{slots: []appservice.Slot{{Name: "staging"}}}
	res := runSwap(t, svc, &SwapState{SiteName: "demo-app"})

	require.Equal(t, wizard.StatusCompleted, res.Status)
	assert.Equal(t, "staging", svc.swappedSource)
	assert.Equal(t, "production", svc.swappedDest)
	assert.Equal(t, []string{"swap:demo-app"}, svc.calls)

	// The target select must not offer the already-chosen source.
	require.Len(t, sc.selectOptions, 2)
	assert.Equal(t, []string{"production", "staging"}, sc.selectOptions[0])
	assert.Equal(t, []string{"production"}, sc.selectOptions[1])
}

func TestSwapFlow_DecliningConfirmCancels(t *testing.T) {
	sc := &script{
		selects:  []answer[string]{{value: "staging"}, {value: "production"}},
		confirms: []answer[bool]{{value: false}},
	}
	sc.install(t)

	svc := &fakeService{slots: []appservice.Slot{{Name: "staging"}}}
	res := runSwap(t, svc, &SwapState{SiteName: "demo-app"})

	require.Equal(t, wizard.StatusCancelled, res.Status)
	require.ErrorIs(t, res.Err, wizard.ErrCancelled)
	assert.Empty(t, svc.calls, "a declined confirmation must not swap")
}

func TestSwapFlow_SingleSlotIsPreconditionFailure(t *testing.T) {
	sc := &script{}
	sc.install(t)

	svc := &fakeService{} // only the implicit production slot
	res := runSwap(t, svc, &SwapState{SiteName: "demo-app"})

	require.Equal(t, wizard.StatusFaulted, res.Status)
	var precond *wizard.PreconditionError
	require.ErrorAs(t, res.Err, &precond)
	assert.Equal(t, `site "demo-app" has no slot to swap with`, precond.Message)
	assert.Empty(t, svc.calls)
}
