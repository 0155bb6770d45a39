package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewright/internal/appservice"
	"sitewright/internal/appservice/steps"
	"sitewright/internal/config"
	"sitewright/internal/wizard"
)

func stubConfig(t *testing.T) {
	t.Helper()
	orig := loadConfig
	loadConfig = func(string) (*config.Config, error) {
		return &config.Config{
			API: config.APIConfig{Endpoint: "https://api.example.net", Token: "tok"},
		}, nil
	}
	t.Cleanup(func() { loadConfig = orig })
}

func stubCreateFlow(t *testing.T, res *wizard.Result[steps.CreateState]) {
	t.Helper()
	orig := runCreateFlow
	runCreateFlow = func(context.Context, appservice.Service, *config.Config, *wizard.Writer) *wizard.Result[steps.CreateState] {
		return res
	}
	t.Cleanup(func() { runCreateFlow = orig })
}

func TestCreate_Completed(t *testing.T) {
	stubConfig(t)
	stubCreateFlow(t, &wizard.Result[steps.CreateState]{Status: wizard.StatusCompleted})

	require.NoError(t, Create(context.Background(), ""))
}

func TestCreate_CancelledIsCleanExit(t *testing.T) {
	stubConfig(t)
	stubCreateFlow(t, &wizard.Result[steps.CreateState]{
		Status: wizard.StatusCancelled,
		Step:   &steps.SiteNameStep{},
		Err:    wizard.ErrCancelled,
	})

	require.NoError(t, Create(context.Background(), ""), "backing out must not be an error exit")
}

func TestCreate_FaultedReturnsError(t *testing.T) {
	stubConfig(t)
	boom := errors.New("quota exceeded")
	stubCreateFlow(t, &wizard.Result[steps.CreateState]{
		Status: wizard.StatusFaulted,
		Step:   &steps.PlanStep{},
		Err:    boom,
	})

	err := Create(context.Background(), "")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Create app service plan")
}

func TestCreate_ConfigErrorPropagates(t *testing.T) {
	orig := loadConfig
	bad := errors.New("no such file")
	loadConfig = func(string) (*config.Config, error) { return nil, bad }
	t.Cleanup(func() { loadConfig = orig })

	require.ErrorIs(t, Create(context.Background(), "missing.yaml"), bad)
}
