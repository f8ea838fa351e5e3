package archecs

import (
	"fmt"
	"strings"
)

// DebugString renders a plain-text dump of every non-empty archetype (the
// root archetype is always listed): its component keys and entity count,
// plus one line per entity showing the values of the columns that have a
// Debuggable formatter registered. The header's archetype count includes
// empty archetypes. Intended for test failures and ad hoc inspection, not a
// stable machine-readable format.
//
// Grounded on other_examples/plus3-ooftn/ecs's debugui archetype viewer
// (stripped of its cimgui-go rendering) and original_source/src/format.rs's
// world dump, adapted to plain text since archecs has no GUI layer.
func (self *World) DebugString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "World: %d entities, %d archetypes (generation %d)\n",
		self.Len(), self.countArchetypes(), self.ArchetypeGeneration())
	for a := range self.archetypes.All() {
		if len(a.entities) == 0 && a.id != self.archetypes.root {
			continue
		}
		fmt.Fprintf(&b, "  archetype %v: %d entities, keys=[", a.id, len(a.entities))
		for i, k := range a.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(debugKeyString(k))
		}
		b.WriteString("]\n")
		for slot, e := range a.entities {
			fmt.Fprintf(&b, "    %v:", e)
			for _, k := range a.keys {
				cell := a.columns[k]
				if cell.desc.DebugFmt == nil {
					continue
				}
				fmt.Fprintf(&b, " %s=%s", cell.desc.Name, cell.desc.DebugFmt(cell.Ptr(slot)))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func debugKeyString(k ComponentKey) string {
	desc := MustDesc(k.Relation)
	if !k.HasObject {
		return desc.Name
	}
	return fmt.Sprintf("%s(%v)", desc.Name, k.Object)
}

func (self *World) countArchetypes() int {
	n := 0
	for range self.archetypes.All() {
		n++
	}
	return n
}
