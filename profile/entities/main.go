// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/ashgrove/archecs"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		archecs.RegisterComponent[comp1]("comp1")
		archecs.RegisterComponent[comp2]("comp2")

		w := archecs.NewWorld()
		query := archecs.NewQuery2[comp1, comp2](w)

		for range iters {
			ids := make([]archecs.Entity, 0, numEntities)
			for i := 0; i < numEntities; i++ {
				id := w.Spawn()
				_ = archecs.Set(w, id, comp1{})
				_ = archecs.Set(w, id, comp2{V: 1, W: 1})
				ids = append(ids, id)
			}
			query.Reset()
			for query.Next() {
				c1, c2 := query.Get()
				c1.V += c2.V
				c1.W += c2.W
			}
			for _, id := range ids {
				_ = w.Despawn(id)
			}
		}
	}
}
