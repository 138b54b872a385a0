package models

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Known phenology stage ids. The detector is trained on these three stages;
// any other id resolves to the unknown fallback.
const (
	StageElongation = 0
	StageRipening   = 1
	StageDecline    = 2

	// StageCount is the number of known stages.
	StageCount = 3
)

// Class describes one phenology stage: its internal name, the label shown to
// the user, and the color used for boxes and label strips.
type Class struct {
	CanonicalName string
	DisplayName   string
	Color         color.RGBA
}

// ClassTable maps class ids to stage metadata. It is built once at startup
// and read-only afterwards, so lookups need no locking.
type ClassTable struct {
	classes map[int]Class
	unknown Class
}

// DefaultClassTable returns the stage table with the stock colors
// (green, orange, red; gray for unknown).
func DefaultClassTable() *ClassTable {
	return &ClassTable{
		classes: map[int]Class{
			StageElongation: {
				CanonicalName: "elongation",
				DisplayName:   "Elongation Stage",
				Color:         color.RGBA{R: 0, G: 255, B: 0, A: 255},
			},
			StageRipening: {
				CanonicalName: "ripening",
				DisplayName:   "Ripening Stage",
				Color:         color.RGBA{R: 255, G: 165, B: 0, A: 255},
			},
			StageDecline: {
				CanonicalName: "decline",
				DisplayName:   "Decline Stage",
				Color:         color.RGBA{R: 255, G: 0, B: 0, A: 255},
			},
		},
		unknown: Class{
			CanonicalName: "unknown",
			DisplayName:   "Unknown Stage",
			Color:         color.RGBA{R: 128, G: 128, B: 128, A: 255},
		},
	}
}

// NewClassTable builds the stage table, overriding stock colors with the
// provided hex strings ("#rrggbb"). Empty strings keep the default color.
func NewClassTable(colorOverrides map[int]string) (*ClassTable, error) {
	table := DefaultClassTable()

	for id, hex := range colorOverrides {
		if hex == "" {
			continue
		}
		cls, ok := table.classes[id]
		if !ok {
			return nil, fmt.Errorf("color override for unknown stage id %d", id)
		}
		parsed, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q for stage %d: %v", hex, id, err)
		}
		r, g, b := parsed.RGB255()
		cls.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		table.classes[id] = cls
	}

	return table, nil
}

// Lookup resolves a class id to its stage metadata. Ids absent from the
// table resolve to the unknown fallback rather than failing.
func (t *ClassTable) Lookup(id int) Class {
	if cls, ok := t.classes[id]; ok {
		return cls
	}
	return t.unknown
}

// Known reports whether the id belongs to a trained stage.
func (t *ClassTable) Known(id int) bool {
	_, ok := t.classes[id]
	return ok
}

// Size returns the number of known stages in the table.
func (t *ClassTable) Size() int {
	return len(t.classes)
}
