package steps

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/huh"

	"sitewright/internal/appservice"
	"sitewright/internal/wizard"
)

// Prompt seams, replaced in tests to script operator answers.
var (
	selectString = wizard.SelectOne[string]
	inputText    = wizard.InputText
	confirm      = wizard.Confirm
)

// CreateState is the shared state of the provisioning wizard. Prompt-phase
// steps fill the plan fields; the final execute step records the created site.
type CreateState struct {
	Location      string
	ResourceGroup string
	PlanName      string
	SKU           string
	SiteName      string
	Runtime       string

	// Created is set by the create step once the site exists.
	Created *appservice.Site
}

// planSKUs are the compute tiers offered during provisioning.
var planSKUs = []huh.Option[string]{
	huh.NewOption("Free (F1)", "F1"),
	huh.NewOption("Basic (B1)", "B1"),
	huh.NewOption("Standard (S1)", "S1"),
	huh.NewOption("Premium (P1v3)", "P1v3"),
}

var resourceNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,88}$`)

func validateResourceName(s string) error {
	if !resourceNameRe.MatchString(s) {
		return fmt.Errorf("%q is not a valid resource name", s)
	}
	return nil
}

// Site names become DNS labels, so the rules are stricter than for other
// resources.
var siteNameRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,58}[a-z0-9])?$`)

func validateSiteName(s string) error {
	if !siteNameRe.MatchString(s) {
		return fmt.Errorf("%q is not a valid site name (lowercase letters, digits and dashes)", s)
	}
	return nil
}

// LocationStep asks which region the app will run in.
type LocationStep struct {
	wizard.Base[CreateState]
	svc appservice.Service
}

func (s *LocationStep) Title() string { return "Choose a location" }

func (s *LocationStep) Prompt(ctx *wizard.Context[CreateState]) error {
	locations, err := s.svc.ListLocations(ctx)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}
	options := make([]huh.Option[string], 0, len(locations))
	for _, l := range locations {
		options = append(options, huh.NewOption(l.DisplayName, l.Name))
	}
	picked, err := selectString(ctx, "Location", "Region the app will run in", options)
	if err != nil {
		return err
	}
	ctx.State.Location = picked
	return nil
}

// ResourceGroupStep asks for a resource group name and creates the group.
type ResourceGroupStep struct {
	wizard.Base[CreateState]
	svc appservice.Service
}

func (s *ResourceGroupStep) Title() string { return "Create resource group" }

func (s *ResourceGroupStep) Prompt(ctx *wizard.Context[CreateState]) error {
	name, err := inputText(ctx, "Resource group", "my-app-rg", validateResourceName)
	if err != nil {
		return err
	}
	ctx.State.ResourceGroup = name
	return nil
}

func (s *ResourceGroupStep) Execute(ctx *wizard.Context[CreateState]) error {
	if err := s.svc.CreateResourceGroup(ctx, ctx.State.ResourceGroup, ctx.State.Location); err != nil {
		return fmt.Errorf("create resource group %q: %w", ctx.State.ResourceGroup, err)
	}
	return nil
}

// PlanStep asks for the plan name and compute tier, and creates the plan.
type PlanStep struct {
	wizard.Base[CreateState]
	svc appservice.Service
}

func (s *PlanStep) Title() string { return "Create app service plan" }

func (s *PlanStep) Prompt(ctx *wizard.Context[CreateState]) error {
	name, err := inputText(ctx, "Plan name", "my-app-plan", validateResourceName)
	if err != nil {
		return err
	}
	ctx.State.PlanName = name

	sku, err := selectString(ctx, "Compute tier", "Pricing tier of the plan", planSKUs)
	if err != nil {
		return err
	}
	ctx.State.SKU = sku
	return nil
}

func (s *PlanStep) Execute(ctx *wizard.Context[CreateState]) error {
	_, err := s.svc.CreatePlan(ctx, appservice.PlanSpec{
		Name:          ctx.State.PlanName,
		ResourceGroup: ctx.State.ResourceGroup,
		Location:      ctx.State.Location,
		SKU:           ctx.State.SKU,
	})
	if err != nil {
		return fmt.Errorf("create plan %q: %w", ctx.State.PlanName, err)
	}
	return nil
}

// SiteNameStep asks for the site name. Prompt only; the create step consumes
// the answer.
type SiteNameStep struct {
	wizard.Base[CreateState]
}

func (s *SiteNameStep) Title() string { return "Choose a site name" }

func (s *SiteNameStep) Prompt(ctx *wizard.Context[CreateState]) error {
	name, err := inputText(ctx, "Site name", "my-app", validateSiteName)
	if err != nil {
		return err
	}
	ctx.State.SiteName = name
	return nil
}

// RuntimeStep asks which application stack the site runs.
type RuntimeStep struct {
	wizard.Base[CreateState]
	svc appservice.Service
}

func (s *RuntimeStep) Title() string { return "Choose a runtime" }

func (s *RuntimeStep) Prompt(ctx *wizard.Context[CreateState]) error {
	runtimes, err := s.svc.ListRuntimes(ctx)
	if err != nil {
		return fmt.Errorf("list runtimes: %w", err)
	}
	options := make([]huh.Option[string], 0, len(runtimes))
	for _, r := range runtimes {
		options = append(options, huh.NewOption(r.DisplayName, r.Value))
	}
	picked, err := selectString(ctx, "Runtime", "Application stack", options)
	if err != nil {
		return err
	}
	ctx.State.Runtime = picked
	return nil
}

// CreateSiteStep creates the site from the gathered state. Execute only.
type CreateSiteStep struct {
	wizard.Base[CreateState]
	svc appservice.Service
}

func (s *CreateSiteStep) Title() string { return "Create site" }

func (s *CreateSiteStep) Execute(ctx *wizard.Context[CreateState]) error {
	site, err := s.svc.CreateSite(ctx, appservice.SiteSpec{
		Name:          ctx.State.SiteName,
		ResourceGroup: ctx.State.ResourceGroup,
		Location:      ctx.State.Location,
		PlanName:      ctx.State.PlanName,
		Runtime:       ctx.State.Runtime,
	})
	if err != nil {
		return fmt.Errorf("create site %q: %w", ctx.State.SiteName, err)
	}
	ctx.State.Created = site
	ctx.Out.Writeline("Site is live at https://" + site.DefaultHostName)
	return nil
}

// CreateFlow bundles the provisioning steps in run order with typed
// references to each.
type CreateFlow struct {
	Location      *LocationStep
	ResourceGroup *ResourceGroupStep
	Plan          *PlanStep
	SiteName      *SiteNameStep
	Runtime       *RuntimeStep
	CreateSite    *CreateSiteStep
}

// NewCreateFlow assembles the provisioning steps against svc.
func NewCreateFlow(svc appservice.Service) *CreateFlow {
	return &CreateFlow{
		Location:      &LocationStep{svc: svc},
		ResourceGroup: &ResourceGroupStep{svc: svc},
		Plan:          &PlanStep{svc: svc},
		SiteName:      &SiteNameStep{},
		Runtime:       &RuntimeStep{svc: svc},
		CreateSite:    &CreateSiteStep{svc: svc},
	}
}

// Steps returns the flow's steps in run order.
func (f *CreateFlow) Steps() []wizard.Step[CreateState] {
	return []wizard.Step[CreateState]{
		f.Location, f.ResourceGroup, f.Plan, f.SiteName, f.Runtime, f.CreateSite,
	}
}
