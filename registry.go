package cotask

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// registry tracks every task that still owns its stack, ordered by ID.
// A task leaves it only when its stack is released, so an ID is never
// seen twice while it is referenced.
type registry struct {
	m *treemap.Map
}

func newRegistry() *registry {
	return &registry{m: treemap.NewWith(utils.UInt64Comparator)}
}

func (r *registry) put(t *Task) {
	if _, dup := r.m.Get(uint64(t.id)); dup {
		panic("cotask: duplicate task id")
	}
	r.m.Put(uint64(t.id), t)
}

func (r *registry) remove(id TaskID) {
	r.m.Remove(uint64(id))
}

func (r *registry) len() int {
	return r.m.Size()
}

func (r *registry) tasks() []*Task {
	vals := r.m.Values()
	tasks := make([]*Task, len(vals))
	for i, v := range vals {
		tasks[i] = v.(*Task)
	}
	return tasks
}
