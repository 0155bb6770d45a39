package handlers

import (
	"context"
	"fmt"
	"os"

	"sitewright/internal/appservice"
	"sitewright/internal/appservice/steps"
	"sitewright/internal/config"
	"sitewright/internal/metrics"
	"sitewright/internal/wizard"
)

// runCreateFlow assembles and runs the provisioning wizard; replaced in tests.
var runCreateFlow = func(ctx context.Context, svc appservice.Service, cfg *config.Config, out *wizard.Writer) *wizard.Result[steps.CreateState] {
	flow := steps.NewCreateFlow(svc)
	var state steps.CreateState
	engine := wizard.New(ctx, &state, out)

	// A configured default location answers the first question up front.
	if cfg.Defaults.Location != "" {
		state.Location = cfg.Defaults.Location
		engine.Add(flow.ResourceGroup, flow.Plan, flow.SiteName, flow.Runtime, flow.CreateSite)
	} else {
		engine.Add(flow.Steps()...)
	}
	return engine.Run()
}

// Create handles the create command: it runs the provisioning wizard and maps
// its outcome onto the process exit behavior. A cancelled run is a clean
// exit, not an error.
func Create(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	out := wizard.NewWriter(os.Stdout, "Create web app")
	res := runCreateFlow(ctx, newService(cfg), cfg, out)
	metrics.WizardRunsTotal.WithLabelValues("create", string(res.Status)).Inc()

	switch res.Status {
	case wizard.StatusCancelled:
		fmt.Println("Cancelled, nothing was created.")
		return nil
	case wizard.StatusFaulted:
		return fmt.Errorf("create halted at %q: %w", res.Step.Title(), res.Err)
	}
	return nil
}
