package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewright/internal/appservice"
	"sitewright/internal/appservice/steps"
	"sitewright/internal/wizard"
)

func stubSwapFlow(t *testing.T, res *wizard.Result[steps.SwapState]) (site *string) {
	t.Helper()
	var got string
	orig := runSwapFlow
	runSwapFlow = func(_ context.Context, _ appservice.Service, s string, _ *wizard.Writer) *wizard.Result[steps.SwapState] {
		got = s
		return res
	}
	t.Cleanup(func() { runSwapFlow = orig })
	return &got
}

func TestSwap_Completed(t *testing.T) {
	stubConfig(t)
	site := stubSwapFlow(t, &wizard.Result[steps.SwapState]{Status: wizard.StatusCompleted})

	require.NoError(t, Swap(context.Background(), "", "demo-app"))
	assert.Equal(t, "demo-app", *site)
}

func TestSwap_CancelledIsCleanExit(t *testing.T) {
	stubConfig(t)
	stubSwapFlow(t, &wizard.Result[steps.SwapState]{
		Status: wizard.StatusCancelled,
		Step:   &steps.ConfirmSwapStep{},
		Err:    wizard.ErrCancelled,
	})

	require.NoError(t, Swap(context.Background(), "", "demo-app"))
}

func TestSwap_FaultedReturnsError(t *testing.T) {
	stubConfig(t)
	boom := errors.New("slot busy")
	stubSwapFlow(t, &wizard.Result[steps.SwapState]{
		Status: wizard.StatusFaulted,
		Step:   &steps.SwapSlotsStep{},
		Err:    boom,
	})

	err := Swap(context.Background(), "", "demo-app")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Swap slots")
}
