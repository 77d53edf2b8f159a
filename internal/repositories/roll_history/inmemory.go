package rollhistory

import (
	"context"
	"slices"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// InMemoryRepository implements Repository with a ring per owner
type InMemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	rings    map[string]*ring
}

type ring struct {
	rolls []*dnd5e.DiceRoll
	start int
	size  int
}

// NewInMemory creates an in-memory roll history; capacity 0 means DefaultCapacity
func NewInMemory(capacity int) *InMemoryRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryRepository{
		capacity: capacity,
		rings:    make(map[string]*ring),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Append stores a copy of the roll
func (r *InMemoryRepository) Append(_ context.Context, input AppendInput) (*AppendOutput, error) {
	if input.Roll == nil {
		return nil, errors.InvalidArgument(errRollNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	owner := ownerOrDefault(input.Owner)
	rg, ok := r.rings[owner]
	if !ok {
		rg = &ring{rolls: make([]*dnd5e.DiceRoll, r.capacity)}
		r.rings[owner] = rg
	}

	roll := copyRoll(input.Roll)
	if rg.size < r.capacity {
		rg.rolls[(rg.start+rg.size)%r.capacity] = roll
		rg.size++
	} else {
		rg.rolls[rg.start] = roll
		rg.start = (rg.start + 1) % r.capacity
	}

	return &AppendOutput{Size: rg.size}, nil
}

// List returns copies, oldest first
func (r *InMemoryRepository) List(_ context.Context, input ListInput) (*ListOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rg, ok := r.rings[ownerOrDefault(input.Owner)]
	if !ok {
		return &ListOutput{Rolls: []*dnd5e.DiceRoll{}}, nil
	}

	rolls := make([]*dnd5e.DiceRoll, 0, rg.size)
	for i := 0; i < rg.size; i++ {
		rolls = append(rolls, copyRoll(rg.rolls[(rg.start+i)%r.capacity]))
	}
	return &ListOutput{Rolls: rolls}, nil
}

// Clear drops the owner's ring
func (r *InMemoryRepository) Clear(_ context.Context, input ClearInput) (*ClearOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner := ownerOrDefault(input.Owner)
	removed := 0
	if rg, ok := r.rings[owner]; ok {
		removed = rg.size
		delete(r.rings, owner)
	}
	return &ClearOutput{Removed: removed}, nil
}

func copyRoll(roll *dnd5e.DiceRoll) *dnd5e.DiceRoll {
	out := *roll
	out.DiceResults = slices.Clone(roll.DiceResults)
	if roll.Pool != nil {
		pool := *roll.Pool
		pool.Rolled = slices.Clone(roll.Pool.Rolled)
		pool.Dropped = slices.Clone(roll.Pool.Dropped)
		out.Pool = &pool
	}
	return &out
}
