package appservice

import "context"

// Service is the management-API contract consumed by the wizards and the
// tunnel session manager. It abstracts the concrete cloud API so handlers
// and tests can substitute implementations.
type Service interface {
	// GetSite resolves a site by "resourceGroup/name" or bare name.
	GetSite(ctx context.Context, name string) (*Site, error)

	// ListLocations returns the regions sites can be created in.
	ListLocations(ctx context.Context) ([]Location, error)

	// ListRuntimes returns the selectable application stacks.
	ListRuntimes(ctx context.Context) ([]Runtime, error)

	// CreateResourceGroup creates a resource group. It is idempotent.
	CreateResourceGroup(ctx context.Context, name, location string) error

	// CreatePlan creates an app service plan.
	CreatePlan(ctx context.Context, spec PlanSpec) (*Plan, error)

	// CreateSite creates a web app on an existing plan.
	CreateSite(ctx context.Context, spec SiteSpec) (*Site, error)

	// ListSlots returns the deployment slots of a site, production included.
	ListSlots(ctx context.Context, site string) ([]Slot, error)

	// SwapSlots swaps the source slot into the target slot of a site.
	SwapSlots(ctx context.Context, site, source, target string) error

	// GetConfig returns the current site configuration.
	GetConfig(ctx context.Context, site string) (*SiteConfig, error)

	// SetRemoteDebugFlag flips remote debugging and returns the updated
	// configuration.
	SetRemoteDebugFlag(ctx context.Context, site string, enabled bool) (*SiteConfig, error)

	// ListPublishingCredentials fetches the short-lived publish credentials
	// for a site.
	ListPublishingCredentials(ctx context.Context, site string) (*PublishingCredentials, error)
}
