package steps

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"sitewright/internal/appservice"
	"sitewright/internal/wizard"
)

// SwapState carries the target site of the slot-swap wizard. The chosen slots
// live on SlotPickStep; downstream steps hold a typed reference to it instead
// of searching the sequence.
type SwapState struct {
	SiteName string
}

// SlotPickStep asks which slot to promote and into which. Its answers are
// read by the confirm and swap steps through their typed references.
type SlotPickStep struct {
	wizard.Base[SwapState]
	svc appservice.Service

	// Source and Dest are set by Prompt.
	Source string
	Dest   string
}

func (s *SlotPickStep) Title() string { return "Choose slots" }

func (s *SlotPickStep) Prompt(ctx *wizard.Context[SwapState]) error {
	slots, err := s.svc.ListSlots(ctx, ctx.State.SiteName)
	if err != nil {
		return fmt.Errorf("list slots of %q: %w", ctx.State.SiteName, err)
	}

	names := []string{appservice.ProductionSlot}
	for _, slot := range slots {
		if slot.Name != appservice.ProductionSlot {
			names = append(names, slot.Name)
		}
	}
	if len(names) < 2 {
		return wizard.Preconditionf("site %q has no slot to swap with", ctx.State.SiteName)
	}

	source, err := selectString(ctx, "Source slot", "Slot whose content is promoted",
		slotOptions(names, ""))
	if err != nil {
		return err
	}
	s.Source = source

	dest, err := selectString(ctx, "Target slot", "Slot the content is promoted into",
		slotOptions(names, source))
	if err != nil {
		return err
	}
	s.Dest = dest
	return nil
}

func slotOptions(names []string, exclude string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		if name == exclude {
			continue
		}
		options = append(options, huh.NewOption(name, name))
	}
	return options
}

// ConfirmSwapStep asks for final confirmation. Declining backs the wizard out
// before anything is applied.
type ConfirmSwapStep struct {
	wizard.Base[SwapState]
	pick *SlotPickStep
}

func (s *ConfirmSwapStep) Title() string { return "Confirm swap" }

func (s *ConfirmSwapStep) Prompt(ctx *wizard.Context[SwapState]) error {
	ok, err := confirm(ctx,
		fmt.Sprintf("Swap %q into %q on %s?", s.pick.Source, s.pick.Dest, ctx.State.SiteName),
		"Swap", "Abort")
	if err != nil {
		return err
	}
	if !ok {
		return wizard.ErrCancelled
	}
	return nil
}

// SwapSlotsStep performs the swap. Execute only.
type SwapSlotsStep struct {
	wizard.Base[SwapState]
	svc  appservice.Service
	pick *SlotPickStep
}

func (s *SwapSlotsStep) Title() string { return "Swap slots" }

func (s *SwapSlotsStep) Execute(ctx *wizard.Context[SwapState]) error {
	if err := s.svc.SwapSlots(ctx, ctx.State.SiteName, s.pick.Source, s.pick.Dest); err != nil {
		return fmt.Errorf("swap %q into %q: %w", s.pick.Source, s.pick.Dest, err)
	}
	ctx.Out.Writeline(fmt.Sprintf("Swapped %q into %q on %s", s.pick.Source, s.pick.Dest, ctx.State.SiteName))
	return nil
}

// SwapFlow bundles the slot-swap steps in run order.
type SwapFlow struct {
	Pick    *SlotPickStep
	Confirm *ConfirmSwapStep
	Swap    *SwapSlotsStep
}

// NewSwapFlow assembles the slot-swap steps against svc.
func NewSwapFlow(svc appservice.Service) *SwapFlow {
	pick := &SlotPickStep{svc: svc}
	return &SwapFlow{
		Pick:    pick,
		Confirm: &ConfirmSwapStep{pick: pick},
		Swap:    &SwapSlotsStep{svc: svc, pick: pick},
	}
}

// Steps returns the flow's steps in run order.
func (f *SwapFlow) Steps() []wizard.Step[SwapState] {
	return []wizard.Step[SwapState]{f.Pick, f.Confirm, f.Swap}
}
