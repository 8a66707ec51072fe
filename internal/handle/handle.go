// Package handle maps opaque integer handles to value tree nodes.
//
// Owned handles name the root of a tree and are released exactly once.
// Borrowed handles name a node reached from a root; they are memoised per
// node and die together with their root. Every handle carries its slot's
// generation, so a released handle never resolves again even after its slot
// is reused.
package handle

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mcncl/gbln/internal/errors"
	"github.com/mcncl/gbln/internal/logging"
	"github.com/mcncl/gbln/internal/value"
)

// Handle is an opaque reference to a node. Zero is the null handle.
type Handle uint64

// Null is the null handle.
const Null Handle = 0

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index+1))
}

func (h Handle) index() (uint32, bool) {
	low := uint32(h)
	if low == 0 {
		return 0, false
	}
	return low - 1, true
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

func (h Handle) String() string {
	if h == Null {
		return "null"
	}
	idx, _ := h.index()
	return fmt.Sprintf("#%d@%d", idx, h.generation())
}

type slot struct {
	gen   uint32
	live  bool
	owned bool
	root  uint32 // slot index of the owning root; self for roots
	node  *value.Value
}

// Stats counts live handles.
type Stats struct {
	Owned    int
	Borrowed int
}

// Arena owns the handle table. It is safe for concurrent use; the trees it
// references are not.
type Arena struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
	// borrows maps a root slot to the borrowed handles derived from it.
	borrows map[uint32]map[*value.Value]Handle
	stats   Stats
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{borrows: make(map[uint32]map[*value.Value]Handle)}
}

func (a *Arena) alloc(node *value.Value, owned bool, root uint32) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	s.live = true
	s.owned = owned
	s.node = node
	if owned {
		s.root = idx
		a.stats.Owned++
	} else {
		s.root = root
		a.stats.Borrowed++
	}
	return makeHandle(idx, s.gen)
}

func (a *Arena) release(idx uint32) {
	s := &a.slots[idx]
	if s.owned {
		a.stats.Owned--
	} else {
		a.stats.Borrowed--
	}
	s.live = false
	s.node = nil
	a.free = append(a.free, idx)
}

// lookup resolves h to its slot. Callers hold a.mu.
func (a *Arena) lookup(h Handle) (uint32, *slot, error) {
	idx, ok := h.index()
	if !ok {
		return 0, nil, errors.ErrNilHandle
	}
	if int(idx) >= len(a.slots) {
		return 0, nil, errors.ErrStaleHandle
	}
	s := &a.slots[idx]
	if !s.live || s.gen != h.generation() {
		return 0, nil, errors.ErrStaleHandle
	}
	return idx, s, nil
}

// Own registers v as the root of a new tree.
func (a *Arena) Own(v *value.Value) Handle {
	if v == nil {
		return Null
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	h := a.alloc(v, true, 0)
	logging.L().Debug("handle created", zap.Stringer("handle", h), zap.Stringer("kind", v.Kind()))
	return h
}

// Resolve returns the node behind h, or false for null and stale handles.
func (a *Arena) Resolve(h Handle) (*value.Value, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, s, err := a.lookup(h)
	if err != nil {
		return nil, false
	}
	return s.node, true
}

// IsOwned reports whether h is a live root handle.
func (a *Arena) IsOwned(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, s, err := a.lookup(h)
	return err == nil && s.owned
}

// Borrow returns a non-owning handle for child, reached from parent. Asking
// twice for the same node returns the same handle.
func (a *Arena) Borrow(parent Handle, child *value.Value) Handle {
	if child == nil {
		return Null
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, s, err := a.lookup(parent)
	if err != nil {
		return Null
	}
	root := s.root
	memo := a.borrows[root]
	if memo == nil {
		memo = make(map[*value.Value]Handle)
		a.borrows[root] = memo
	}
	if h, ok := memo[child]; ok {
		return h
	}
	h := a.alloc(child, false, root)
	memo[child] = h
	return h
}

// Release frees a root handle and every handle borrowed from its tree.
// Null is ignored. Releasing a borrowed, stale or already freed handle is a
// caller bug: it is logged and otherwise ignored.
func (a *Arena) Release(h Handle) bool {
	if h == Null {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	idx, s, err := a.lookup(h)
	if err != nil {
		logging.L().Warn("free of invalid handle ignored", zap.Stringer("handle", h), zap.Error(err))
		return false
	}
	if !s.owned {
		logging.L().Warn("free of borrowed handle ignored", zap.Stringer("handle", h))
		return false
	}

	borrowed := len(a.borrows[idx])
	for _, bh := range a.borrows[idx] {
		bidx, _ := bh.index()
		a.release(bidx)
	}
	delete(a.borrows, idx)
	a.release(idx)

	logging.L().Debug("handle freed", zap.Stringer("handle", h), zap.Int("borrowed", borrowed))
	return true
}

// Mutate runs fn on the nodes behind target and val while holding the arena
// lock. Both must be distinct live roots. When fn succeeds, val's handle is
// consumed: its slot is released and its borrowed handles move to target's
// tree. When fn fails, nothing changes and val stays with the caller.
func (a *Arena) Mutate(target, val Handle, fn func(target, val *value.Value) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tidx, ts, err := a.lookup(target)
	if err != nil {
		a.warnInvalid("target", target, err)
		return errors.NewNullPointerError("invalid target handle", err)
	}
	if !ts.owned {
		return errors.Wrap(errors.CodeTypeMismatch, "cannot mutate through a borrowed handle", errors.ErrBorrowedHandle).
			WithSuggestion("mutate a value before inserting it, or keep the owning handle")
	}
	vidx, vs, err := a.lookup(val)
	if err != nil {
		a.warnInvalid("value", val, err)
		return errors.NewNullPointerError("invalid value handle", err)
	}
	if !vs.owned {
		return errors.NewNullPointerError("value handle is borrowed; only owned values can be inserted", errors.ErrBorrowedHandle)
	}
	if tidx == vidx {
		return errors.NewNullPointerError("a value cannot be inserted into itself", nil)
	}

	if err := fn(ts.node, vs.node); err != nil {
		return err
	}

	// Re-parent val's borrowed handles, then retire val's own slot.
	if moved := a.borrows[vidx]; len(moved) > 0 {
		memo := a.borrows[tidx]
		if memo == nil {
			memo = make(map[*value.Value]Handle, len(moved))
			a.borrows[tidx] = memo
		}
		for node, bh := range moved {
			bidx, _ := bh.index()
			a.slots[bidx].root = tidx
			memo[node] = bh
		}
	}
	delete(a.borrows, vidx)
	a.release(vidx)
	return nil
}

func (a *Arena) warnInvalid(role string, h Handle, err error) {
	if h == Null {
		return
	}
	logging.L().Warn("invalid handle passed to mutator",
		zap.String("role", role), zap.Stringer("handle", h), zap.Error(err))
}

// Stats returns the live handle counts.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
