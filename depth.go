package rsonpath

// ContainerKind distinguishes an object frame from an array frame.
type ContainerKind uint8

const (
	ContainerObject ContainerKind = iota
	ContainerArray
)

// containerFrame is spec.md §3's "Container frame": pushed on Open,
// popped on the matching Close.
type containerFrame struct {
	kind  ContainerKind
	start int    // offset of the Open event
	index uint32 // next array element index; unused for objects

	// seenNames records, for an object frame only, every member name
	// already consumed by fireTransitions. Per spec.md §9's "first wins"
	// duplicate-key decision, a Name-selector transition only fires for a
	// member's first occurrence in its object; seenNames is how
	// fireTransitions recognizes a later occurrence of the same name and
	// suppresses it. Lazily allocated; nil for array frames.
	seenNames map[string]struct{}
}

// depthStack is the bounded container-frame stack of spec.md §4.4,
// sized to document nesting depth rather than document length (spec.md
// §9 "a small preallocated vector suffices").
type depthStack struct {
	frames []containerFrame

	// pendingNameStart/End describe the quoted name recovered at the most
	// recent Colon in the current object frame: spec.md §3's "Pending
	// name". Valid only when pendingNameValid is true; consumed
	// (invalidated) by the next value.
	pendingNameStart int
	pendingNameEnd   int
	pendingNameValid bool
}

func newDepthStack() *depthStack {
	return &depthStack{frames: make([]containerFrame, 0, 32)}
}

// depth is the number of currently open containers: spec.md invariant 1,
// "the depth stack is empty iff the engine is at top level".
func (d *depthStack) depth() int { return len(d.frames) }

func (d *depthStack) top() *containerFrame {
	if len(d.frames) == 0 {
		return nil
	}
	return &d.frames[len(d.frames)-1]
}

func (d *depthStack) push(kind ContainerKind, start int) {
	d.frames = append(d.frames, containerFrame{kind: kind, start: start})
	d.pendingNameValid = false
}

func (d *depthStack) pop() {
	if len(d.frames) > 0 {
		d.frames = d.frames[:len(d.frames)-1]
	}
	d.pendingNameValid = false
}

// onComma applies spec.md §4.4's Comma rule: bump the enclosing array's
// element index, or (defensively) clear a dangling pending name in an
// object. Per spec.md invariant 3 the pending name should already have
// been consumed by its value, so the object branch is a safety net, not
// a load-bearing path.
func (d *depthStack) onComma() {
	if f := d.top(); f != nil && f.kind == ContainerArray {
		f.index++
	}
	d.pendingNameValid = false
}

func (d *depthStack) setPendingName(start, end int) {
	d.pendingNameStart, d.pendingNameEnd = start, end
	d.pendingNameValid = true
}

// takePendingName consumes and clears the pending name, per spec.md
// invariant 3 ("a pending name exists for at most one value").
func (d *depthStack) takePendingName() (start, end int, ok bool) {
	if !d.pendingNameValid {
		return 0, 0, false
	}
	d.pendingNameValid = false
	return d.pendingNameStart, d.pendingNameEnd, true
}
