package regfile

import "golang.org/x/exp/slices"

// ArithmeticIntensityThreshold is the tunable (not correctness-bearing,
// per spec.md section 9's open question) number of consecutive
// arithmetic uses of a value within its declaring scope above which
// AllocSmart prefers a typed shadow over a boxed-only register. Exposed
// as a variable, not a const, so an embedder can retune it without
// forking the allocator.
var ArithmeticIntensityThreshold = 3

// bitset is a small fixed free-bit array; bands are sized in the tens to
// low hundreds of slots, so a []uint64 word vector is simpler and fast
// enough without the generality of a sparse structure.
type bitset struct {
	words []uint64
	size  int
}

func newBitset(size int) *bitset {
	return &bitset{words: make([]uint64, (size+63)/64), size: size}
}

func (b *bitset) test(i int) bool  { return b.words[i/64]&(1<<uint(i%64)) != 0 }
func (b *bitset) set(i int)        { b.words[i/64] |= 1 << uint(i%64) }
func (b *bitset) clear(i int)      { b.words[i/64] &^= 1 << uint(i%64) }

// lowestFree returns the lowest index not yet set, or -1 if full.
func (b *bitset) lowestFree() int {
	for i := 0; i < b.size; i++ {
		if !b.test(i) {
			return i
		}
	}
	return -1
}

// scopeTemp is one lexical scope's worth of temp-band bookkeeping: which
// temp ids it allocated (for O(#levels) mass release on exit_scope) and
// whether it pinned any of them to a typed bank for the duration of an
// enclosing loop.
type scopeTemp struct {
	allocated []LogicalID
	residency map[LogicalID]bool
}

// Allocator is the compile-time register allocator described in
// spec.md section 4.2: free-bit arrays per band, a scope stack for
// LIFO temp release, typed-bank attachment independent of the logical
// id space, and least-recently-used temp spilling when a band is
// exhausted. One Allocator exists per function being compiled; the
// outermost (module-level) Allocator owns the global and module bands.
type Allocator struct {
	global *bitset
	frame  *bitset
	temp   *bitset
	module *bitset

	scopes []scopeTemp

	// typedBanks tracks which logical ids currently have a typed shadow
	// attached, independent of the boxed allocator state, per spec.md
	// 4.2 ("typed banks are allocated independently from the logical id
	// space").
	typedBanks map[LogicalID]TypedBank

	// lru tracks temp allocation order for the spill-oldest policy.
	lruTemp []LogicalID

	spilled map[LogicalID]bool

	// arithmeticHits counts consecutive arithmetic-context allocations
	// per hot variable slot, consulted by AllocSmart.
	arithmeticHits map[LogicalID]int
}

func NewAllocator() *Allocator {
	return &Allocator{
		global:         newBitset(GlobalSize),
		frame:          newBitset(FrameSize),
		temp:           newBitset(TempSize),
		module:         newBitset(ModuleSize),
		typedBanks:     make(map[LogicalID]TypedBank),
		spilled:        make(map[LogicalID]bool),
		arithmeticHits: make(map[LogicalID]int),
	}
}

func (a *Allocator) bandBitset(b Band) *bitset {
	switch b {
	case BandGlobal:
		return a.global
	case BandFrame:
		return a.frame
	case BandTemp:
		return a.temp
	case BandModule:
		return a.module
	default:
		return nil
	}
}

func (a *Allocator) allocInBand(b Band) LogicalID {
	bits := a.bandBitset(b)
	idx := bits.lowestFree()
	if idx < 0 {
		if b == BandTemp {
			return a.spillOldestTemp()
		}
		panic("regfile: register band exhausted: " + b.String())
	}
	bits.set(idx)
	id := LogicalID(bandBase(b) + idx)
	if b == BandTemp {
		a.lruTemp = append(a.lruTemp, id)
	}
	return id
}

func (a *Allocator) AllocGlobal() LogicalID { return a.allocInBand(BandGlobal) }
func (a *Allocator) AllocModule() LogicalID { return a.allocInBand(BandModule) }

// AllocFrame allocates one frame-band register (a function parameter or
// local), recording it against the current scope so a block's locals
// are released on ExitScope along with its temps, per spec.md 4.7's
// Block contract ("pop scope releases all temps and locals declared at
// this level").
func (a *Allocator) AllocFrame() LogicalID {
	id := a.allocInBand(BandFrame)
	if n := len(a.scopes); n > 0 {
		a.scopes[n-1].allocated = append(a.scopes[n-1].allocated, id)
	}
	return id
}

// AllocTemp allocates one temp register at the current scope level,
// recording it so ExitScope can mass-release it.
func (a *Allocator) AllocTemp() LogicalID {
	id := a.allocInBand(BandTemp)
	if n := len(a.scopes); n > 0 {
		a.scopes[n-1].allocated = append(a.scopes[n-1].allocated, id)
	}
	return id
}

// AllocConsecutiveTemps allocates n temps in ascending logical-id order,
// for call argument sequences that must land in adjacent registers
// (spec.md 4.2).
func (a *Allocator) AllocConsecutiveTemps(n int) []LogicalID {
	ids := make([]LogicalID, n)
	for i := 0; i < n; i++ {
		ids[i] = a.AllocTemp()
	}
	return ids
}

// spillOldestTemp evicts the least-recently-allocated temp still live,
// freeing its slot for a new allocation, per spec.md 4.2's
// exhaustion policy. The evicted id's bit stays set in the bitset (it
// is still "in use" from the allocator's bookkeeping perspective, just
// backed by the register file's overflow map rather than an in-band
// slot) until freed normally.
func (a *Allocator) spillOldestTemp() LogicalID {
	for len(a.lruTemp) > 0 {
		oldest := a.lruTemp[0]
		a.lruTemp = a.lruTemp[1:]
		if a.spilled[oldest] {
			continue
		}
		a.spilled[oldest] = true
		// The freed logical id is reused for the new allocation; the
		// register file (internal/regfile.File) is responsible for
		// actually moving the old value to its spill map when the
		// compiler emits the corresponding spill opcode sequence.
		idx := int(oldest) - bandBase(BandTemp)
		a.temp.clear(idx)
		freeIdx := a.temp.lowestFree()
		a.temp.set(freeIdx)
		newID := LogicalID(bandBase(BandTemp) + freeIdx)
		a.lruTemp = append(a.lruTemp, newID)
		return newID
	}
	panic("regfile: temp band exhausted and nothing left to spill")
}

// EnterScope pushes a new lexical scope for LIFO temp release.
func (a *Allocator) EnterScope() {
	a.scopes = append(a.scopes, scopeTemp{residency: make(map[LogicalID]bool)})
}

// ExitScope releases exactly the temp and frame registers allocated
// since the matching EnterScope (spec.md 8 property 6), leaving earlier
// registers' in-use bits untouched.
func (a *Allocator) ExitScope() {
	if len(a.scopes) == 0 {
		return
	}
	top := a.scopes[len(a.scopes)-1]
	a.scopes = a.scopes[:len(a.scopes)-1]
	for _, id := range top.allocated {
		a.Free(id)
	}
}

// AllocScopedTemp is equivalent to AllocTemp but documents intent at
// call sites that explicitly track a scope level rather than always
// using the top of the scope stack (e.g. the optimizer's hoisting pass
// allocating a temp in an enclosing scope). scopeLevel must name an
// already-pushed scope (0 = outermost currently open).
func (a *Allocator) AllocScopedTemp(scopeLevel int) LogicalID {
	id := a.allocInBand(BandTemp)
	if scopeLevel >= 0 && scopeLevel < len(a.scopes) {
		a.scopes[scopeLevel].allocated = append(a.scopes[scopeLevel].allocated, id)
	}
	return id
}

// AllocTyped attaches a typed shadow of the given bank to a fresh temp
// register, without moving any logical id (spec.md 4.2: "typed banks
// are allocated independently from the logical id space").
func (a *Allocator) AllocTyped(bank TypedBank) LogicalID {
	id := a.AllocTemp()
	a.typedBanks[id] = bank
	return id
}

// AllocSmart allocates a temp and, when hot is true, counts one
// arithmetic hit against the returned id, attaching a typed shadow of
// kind once that id's count reaches ArithmeticIntensityThreshold (a
// tunable per spec.md section 9's second open question, not a
// correctness parameter). Each call allocates a fresh id and Free
// clears an id's count, so a count only grows past 1 for an id the
// temp band hands out again through spilling; with the default
// threshold of 3 a typed shadow is otherwise not attached.
func (a *Allocator) AllocSmart(kind TypedBank, hot bool) LogicalID {
	id := a.AllocTemp()
	if !hot {
		return id
	}
	a.arithmeticHits[id]++
	if a.arithmeticHits[id] >= ArithmeticIntensityThreshold {
		a.typedBanks[id] = kind
	}
	return id
}

// TypedResidencyHint records that id should stay pinned to its typed
// bank across the active loop rather than being synced back to boxed
// between iterations, per spec.md 4.2.
func (a *Allocator) TypedResidencyHint(id LogicalID, persistent bool) {
	if n := len(a.scopes); n > 0 {
		a.scopes[n-1].residency[id] = persistent
	}
}

// TypedBankOf reports the typed bank attached to id, if any.
func (a *Allocator) TypedBankOf(id LogicalID) (TypedBank, bool) {
	b, ok := a.typedBanks[id]
	return b, ok
}

// Free releases a register's in-use bit. Idempotent after scope exit,
// per spec.md 4.2.
func (a *Allocator) Free(id LogicalID) {
	band := BandOf(id)
	bits := a.bandBitset(band)
	idx := int(id) - bandBase(band)
	if !bits.test(idx) {
		return // already free; idempotent
	}
	bits.clear(idx)
	delete(a.typedBanks, id)
	delete(a.spilled, id)
	delete(a.arithmeticHits, id)
	if band == BandTemp {
		if i := slices.Index(a.lruTemp, id); i >= 0 {
			a.lruTemp = slices.Delete(a.lruTemp, i, i+1)
		}
	}
}

// ReserveGlobal marks a global logical id as permanently in use (e.g.
// a well-known builtin slot), independent of scope tracking.
func (a *Allocator) ReserveGlobal(id LogicalID) {
	idx := int(id) - bandBase(BandGlobal)
	a.global.set(idx)
}

// InUse reports whether id's in-use bit is currently set; exported for
// property tests (spec.md 8 property 6).
func (a *Allocator) InUse(id LogicalID) bool {
	band := BandOf(id)
	bits := a.bandBitset(band)
	idx := int(id) - bandBase(band)
	return bits.test(idx)
}
