package dotlottie

import (
	"dotlottie-go/internal/debug"
	"dotlottie-go/internal/slots"
	"dotlottie-go/internal/theming"
)

// clearTheme drops the active theme id and the in-memory slot document.
// Called on every animation or container load.
func (p *DotLottiePlayer) clearTheme() {
	p.activeThemeID = ""
	p.themeSlots = make(slots.Document)
}

// SetTheme loads a theme from the open container by id and applies it,
// fully replacing the active slot overlay.
func (p *DotLottiePlayer) SetTheme(themeID string) bool {
	if themeID == "" {
		return p.ResetTheme()
	}
	if p.reader == nil {
		return false
	}
	data, err := p.reader.Theme(themeID)
	if err != nil {
		p.log.LogContainerf(debug.LogLevelWarning, "theme %q: %v", themeID, err)
		return false
	}
	if !p.applyThemeData(data) {
		return false
	}
	p.activeThemeID = themeID
	return true
}

// SetThemeData applies a theme document directly. The active theme id is
// cleared since the document did not come from the container.
func (p *DotLottiePlayer) SetThemeData(themeJSON string) bool {
	if !p.applyThemeData(themeJSON) {
		return false
	}
	p.activeThemeID = ""
	return true
}

func (p *DotLottiePlayer) applyThemeData(themeJSON string) bool {
	document, err := theming.TransformDocument(themeJSON, p.activeAnimationID)
	if err != nil {
		p.log.LogPlayerf(debug.LogLevelWarning, "theme transform: %v", err)
		return false
	}
	previous := p.themeSlots
	p.themeSlots = document
	if err := p.PushSlots(); err != nil {
		p.themeSlots = previous
		return false
	}
	return true
}

// ResetTheme removes all slot overlays.
func (p *DotLottiePlayer) ResetTheme() bool {
	p.clearTheme()
	if err := p.renderer.SetSlots(""); err != nil {
		p.log.LogRendererf(debug.LogLevelWarning, "unload slots: %v", err)
		return false
	}
	return true
}

// ThemeSlots exposes the in-memory slot document to the global-inputs
// engine; the engine rewrites slots in place and calls PushSlots.
func (p *DotLottiePlayer) ThemeSlots() slots.Document {
	return p.themeSlots
}

// PushSlots serializes the slot document and hands it to the renderer
// atomically. An empty document unloads the overlay.
func (p *DotLottiePlayer) PushSlots() error {
	if len(p.themeSlots) == 0 {
		return p.renderer.SetSlots("")
	}
	document, err := slots.MarshalDocument(p.themeSlots)
	if err != nil {
		p.log.LogPlayerf(debug.LogLevelWarning, "slot document: %v", err)
		return err
	}
	return p.renderer.SetSlots(document)
}

// SlotsJSON returns the overlay document the renderer currently holds.
func (p *DotLottiePlayer) SlotsJSON() string {
	return p.renderer.Slots()
}

// upsertSlot installs a single slot override and pushes the document.
func (p *DotLottiePlayer) upsertSlot(slotID string, slot *slots.Slot) bool {
	if err := slot.Validate(); err != nil {
		p.log.LogPlayerf(debug.LogLevelWarning, "slot %q: %v", slotID, err)
		return false
	}
	p.themeSlots[slotID] = slot
	return p.PushSlots() == nil
}

// SetColorSlot overrides a color slot with a static 3- or 4-component
// value.
func (p *DotLottiePlayer) SetColorSlot(slotID string, components []float32) bool {
	slot, err := slots.NewColor(components)
	if err != nil {
		p.log.LogPlayerf(debug.LogLevelWarning, "color slot %q: %v", slotID, err)
		return false
	}
	return p.upsertSlot(slotID, slot)
}

// SetGradientSlot overrides a gradient slot with static stops.
func (p *DotLottiePlayer) SetGradientSlot(slotID string, stops []GradientStop) bool {
	return p.upsertSlot(slotID, slots.NewGradient(stops))
}

// SetScalarSlot overrides a scalar slot.
func (p *DotLottiePlayer) SetScalarSlot(slotID string, value float32) bool {
	return p.upsertSlot(slotID, slots.NewStatic(slots.KindScalar, []float32{value}))
}

// SetVectorSlot overrides a 2D vector slot.
func (p *DotLottiePlayer) SetVectorSlot(slotID string, x, y float32) bool {
	return p.upsertSlot(slotID, slots.NewStatic(slots.KindVector, []float32{x, y}))
}

// SetPositionSlot overrides a 2D position slot.
func (p *DotLottiePlayer) SetPositionSlot(slotID string, x, y float32) bool {
	return p.upsertSlot(slotID, slots.NewStatic(slots.KindPosition, []float32{x, y}))
}

// SetTextSlot overrides a text slot with a single document.
func (p *DotLottiePlayer) SetTextSlot(slotID string, document TextDocument) bool {
	return p.upsertSlot(slotID, slots.NewText(document))
}

// SetImageSlot overrides an image slot with a path or data URL.
func (p *DotLottiePlayer) SetImageSlot(slotID string, pathOrDataURL string, width, height uint32) bool {
	var slot *slots.Slot
	if len(pathOrDataURL) > 5 && pathOrDataURL[:5] == "data:" {
		slot = slots.NewImageFromDataURL(pathOrDataURL)
	} else {
		slot = slots.NewImageFromPath(pathOrDataURL)
	}
	if width > 0 || height > 0 {
		slot.WithDimensions(width, height)
	}
	return p.upsertSlot(slotID, slot)
}
