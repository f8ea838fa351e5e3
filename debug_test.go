package archecs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type dgPosition struct{ X int }

func TestDebugStringListsArchetypesAndEntities(t *testing.T) {
	w := NewWorld()
	Component[dgPosition](Debuggable(func(p *dgPosition) string {
		return "X=" + string(rune('0'+p.X))
	}))
	e := w.Spawn()
	assert.NoError(t, Set(w, e, dgPosition{X: 3}))

	out := w.DebugString()
	assert.Contains(t, out, "1 entities")
	assert.Contains(t, out, "dgPosition")
	assert.Contains(t, out, "X=3")
	assert.True(t, strings.Contains(out, "World:"))
}

func TestDebugKeyStringPlainComponent(t *testing.T) {
	cid := Component[dgPosition]()
	s := debugKeyString(relationKey(cid))
	assert.Equal(t, "dgPosition", s)
}
