package testutils

import (
	"fmt"
	"sync"
)

// ScriptedRoller returns pre-set die values in order. It satisfies the
// rpg-toolkit dice.Roller interface and fails once the script runs out.
type ScriptedRoller struct {
	mu     sync.Mutex
	values []int
}

// NewScriptedRoller creates a roller that yields values in order
func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

// Push appends more values to the script
func (r *ScriptedRoller) Push(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}

// Remaining reports how many scripted values are left
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Roll returns the next scripted value
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.values) == 0 {
		return 0, fmt.Errorf("scripted roller exhausted rolling d%d", size)
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v, nil
}

// RollN returns the next count scripted values
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
