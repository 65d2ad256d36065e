package render

// Surface is the sink typeset elements are drawn on.
type Surface interface {
	Add(elements ...Element)
	Remove(elements ...Element)
	Clear()
	Elements() []Element
}

// Layer is an in-memory Surface. Other surfaces embed it and redraw after
// each change.
type Layer struct {
	elements []Element
}

func NewLayer() *Layer {
	return &Layer{}
}

// Add appends elements that are not already on the layer.
func (l *Layer) Add(elements ...Element) {
	for _, e := range elements {
		if l.index(e) < 0 {
			l.elements = append(l.elements, e)
		}
	}
}

// Remove drops elements that are on the layer and ignores the rest.
func (l *Layer) Remove(elements ...Element) {
	for _, e := range elements {
		if i := l.index(e); i >= 0 {
			l.elements = append(l.elements[:i], l.elements[i+1:]...)
		}
	}
}

func (l *Layer) Clear() {
	l.elements = nil
}

// Elements returns the elements in drawing order.
func (l *Layer) Elements() []Element {
	out := make([]Element, len(l.elements))
	copy(out, l.elements)
	return out
}

// Contains reports whether e is on the layer.
func (l *Layer) Contains(e Element) bool {
	return l.index(e) >= 0
}

func (l *Layer) index(e Element) int {
	for i, other := range l.elements {
		if other.ElementID() == e.ElementID() {
			return i
		}
	}
	return -1
}
