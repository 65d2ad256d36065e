package history

import (
	"fmt"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

// Kind tags an Op.
type Kind int

const (
	KindAdd Kind = iota
	KindRemove
	KindMove
	KindClearAll
	KindTransform
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindRemove:
		return "remove"
	case KindMove:
		return "move"
	case KindClearAll:
		return "clear_all"
	case KindTransform:
		return "transform"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Op is one reversible user action. Strokes are snapshots taken when the op
// was recorded; their handles are resolved against the store on replay, so an
// op keeps targeting a stroke across the versions the store creates for it.
type Op struct {
	Kind    Kind
	Strokes []state.Stroke

	// Move
	From geom.Point
	To   geom.Point

	// ClearAll and Transform
	Surface  render.Surface
	Elements []render.Element
}

func AddOp(strokes []state.Stroke) *Op {
	return &Op{Kind: KindAdd, Strokes: snapshot(strokes)}
}

func RemoveOp(strokes []state.Stroke) *Op {
	return &Op{Kind: KindRemove, Strokes: snapshot(strokes)}
}

func MoveOp(strokes []state.Stroke, from, to geom.Point) *Op {
	return &Op{Kind: KindMove, Strokes: snapshot(strokes), From: from, To: to}
}

// ClearAllOp records strokes and typeset elements removed together.
func ClearAllOp(strokes []state.Stroke, surface render.Surface, elements []render.Element) *Op {
	return &Op{Kind: KindClearAll, Strokes: snapshot(strokes), Surface: surface, Elements: elements}
}

// TransformOp records strokes consumed by typesetting and the elements that
// replaced them.
func TransformOp(strokes []state.Stroke, surface render.Surface, elements []render.Element) *Op {
	return &Op{Kind: KindTransform, Strokes: snapshot(strokes), Surface: surface, Elements: elements}
}

// Resolve returns the live versions of the op's strokes. Strokes that are not
// on the canvas are left out.
func (op *Op) Resolve(store *state.Store) []state.Stroke {
	var out []state.Stroke
	for _, s := range op.Strokes {
		if cur, ok := store.Current(s.Handle); ok {
			out = append(out, cur)
		}
	}
	return out
}

func (op *Op) apply(store *state.Store) {
	switch op.Kind {
	case KindAdd:
		store.Add(op.Strokes...)
	case KindRemove:
		store.Remove(op.Resolve(store)...)
	case KindMove:
		store.Select(op.Resolve(store)...)
		store.Move(op.From, op.To)
	case KindClearAll:
		store.Remove(op.Resolve(store)...)
		op.removeElements()
	case KindTransform:
		store.Remove(op.Resolve(store)...)
		op.addElements()
	default:
		panic(fmt.Sprintf("history: apply of unknown op %v", op.Kind))
	}
}

func (op *Op) revert(store *state.Store) {
	switch op.Kind {
	case KindAdd:
		store.Remove(op.Resolve(store)...)
	case KindRemove:
		store.Add(op.Strokes...)
	case KindMove:
		store.Select(op.Resolve(store)...)
		store.Move(op.To, op.From)
	case KindClearAll:
		store.Add(op.Strokes...)
		op.addElements()
	case KindTransform:
		op.removeElements()
		store.Add(op.Strokes...)
	default:
		panic(fmt.Sprintf("history: revert of unknown op %v", op.Kind))
	}
}

func (op *Op) addElements() {
	if op.Surface != nil && len(op.Elements) > 0 {
		op.Surface.Add(op.Elements...)
	}
}

func (op *Op) removeElements() {
	if op.Surface != nil && len(op.Elements) > 0 {
		op.Surface.Remove(op.Elements...)
	}
}

// rebind points snapshots of old at the handle of its clone.
func (op *Op) rebind(old, clone state.Handle) {
	for i := range op.Strokes {
		if op.Strokes[i].Handle == old {
			op.Strokes[i].Handle = clone
		}
	}
}

func snapshot(strokes []state.Stroke) []state.Stroke {
	out := make([]state.Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Clone()
		out[i].Selected = false
	}
	return out
}
