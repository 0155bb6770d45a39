package handlers

import (
	"context"
	"fmt"
	"os"

	"sitewright/internal/appservice"
	"sitewright/internal/appservice/steps"
	"sitewright/internal/metrics"
	"sitewright/internal/wizard"
)

// runSwapFlow assembles and runs the slot-swap wizard; replaced in tests.
var runSwapFlow = func(ctx context.Context, svc appservice.Service, site string, out *wizard.Writer) *wizard.Result[steps.SwapState] {
	flow := steps.NewSwapFlow(svc)
	state := steps.SwapState{SiteName: site}
	engine := wizard.New(ctx, &state, out, flow.Steps()...)
	return engine.Run()
}

// Swap handles the swap command.
func Swap(ctx context.Context, configPath, site string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	out := wizard.NewWriter(os.Stdout, "Swap slots")
	res := runSwapFlow(ctx, newService(cfg), site, out)
	metrics.WizardRunsTotal.WithLabelValues("swap", string(res.Status)).Inc()

	switch res.Status {
	case wizard.StatusCancelled:
		fmt.Println("Cancelled, slots were not swapped.")
		return nil
	case wizard.StatusFaulted:
		return fmt.Errorf("swap halted at %q: %w", res.Step.Title(), res.Err)
	}
	return nil
}
