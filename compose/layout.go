package compose

import "github.com/awantoch/trellis-mcp/model"

// Vertical offsets, in canvas units, from the anchor block or from the first
// block of a pattern.
const (
	offsetCodeEval      = 120
	offsetUpdateAfter   = 240
	offsetStep          = 150
	offsetLoopStart     = 200
	offsetLoopEnd       = 150
	offsetChildRun      = 150
	offsetChildCreate   = 300
	offsetChildEnd      = 450
	offsetRenameLoop    = 150
	offsetRenameUpdate  = 225
	offsetRenameLoopEnd = 300
)

// Default position of a new trigger with no caller coordinates.
var defaultTriggerPosition = model.Position{X: 300, Y: 50}

// Placement is an optional caller override of a pattern's first position.
type Placement struct {
	X *float64
	Y *float64
}

// place returns the first block position: base shifted down by dy unless the
// caller supplied coordinates.
func (p Placement) place(base model.Position, dy float64) model.Position {
	pos := base.Offset(0, dy)
	if p.X != nil {
		pos.X = *p.X
	}
	if p.Y != nil {
		pos.Y = *p.Y
	}
	return pos
}

func (p Placement) triggerPosition() model.Position {
	return p.place(defaultTriggerPosition, 0)
}
