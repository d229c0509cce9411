// Package rewrite implements a combinator algebra for partial, failure-aware
// tree transformations.
//
// A Transform is a total function from a value to an optional result: success
// carries the produced value, failure carries nothing. Failure is an expected
// outcome resolved by composition (OrElse), never an error. The algebra is
// generic and usable on any value type; the child-traversal combinators
// additionally require the ChildMapper capability.
package rewrite

// Transform is a partial function from T to T. The boolean reports success;
// on failure the returned value is the zero value and must be ignored.
type Transform[T any] func(T) (T, bool)

// ChildMapper is the capability required by the traversal combinators:
// rebuild the value with every direct child passed through fn, failing as a
// whole if fn fails on any child.
type ChildMapper[T any] interface {
	MapChildren(fn func(T) (T, bool)) (T, bool)
}

// From lifts a partial mapping into a Transform. It succeeds exactly where
// f reports success.
func From[T any](f func(T) (T, bool)) Transform[T] {
	return Transform[T](f)
}

// Succeed always returns its input unchanged. It is the identity for AndThen.
func Succeed[T any]() Transform[T] {
	return func(x T) (T, bool) {
		return x, true
	}
}

// Fail always fails. It is the identity for OrElse.
func Fail[T any]() Transform[T] {
	return func(T) (T, bool) {
		var zero T
		return zero, false
	}
}

// Constant ignores its input and always produces x.
func Constant[T any](x T) Transform[T] {
	return func(T) (T, bool) {
		return x, true
	}
}

// AndThen sequences two transforms: the result succeeds iff t succeeds and
// next succeeds on t's output. Failure short-circuits.
func (t Transform[T]) AndThen(next Transform[T]) Transform[T] {
	return func(x T) (T, bool) {
		y, ok := t(x)
		if !ok {
			var zero T
			return zero, false
		}
		return next(y)
	}
}

// OrElse returns t's result when it succeeds; otherwise it applies alt to
// the same original input. There is nothing to roll back: transforms have
// no side effects.
func (t Transform[T]) OrElse(alt Transform[T]) Transform[T] {
	return func(x T) (T, bool) {
		if y, ok := t(x); ok {
			return y, true
		}
		return alt(x)
	}
}

// Not inverts t's outcome: it succeeds with the original input iff t fails,
// and fails iff t succeeds. The inversion is done by substituting the
// outcome of a single application, not by invoking t twice.
func Not[T any](t Transform[T]) Transform[T] {
	return func(x T) (T, bool) {
		if _, ok := t(x); ok {
			var zero T
			return zero, false
		}
		return x, true
	}
}

// Predicate succeeds, returning the input unchanged, iff the partial boolean
// function p is defined at the input and evaluates true.
func Predicate[T any](p func(T) (value, defined bool)) Transform[T] {
	return func(x T) (T, bool) {
		value, defined := p(x)
		if !defined || !value {
			var zero T
			return zero, false
		}
		return x, true
	}
}

// ForAllChildren applies t to every direct child and rebuilds the node.
// If t fails on any child the whole application fails; a partially rebuilt
// node is never produced.
func ForAllChildren[T ChildMapper[T]](t Transform[T]) Transform[T] {
	return func(x T) (T, bool) {
		return x.MapChildren(t)
	}
}

// ForAnyChild applies t to every direct child, keeping children on which t
// fails via identity. It never fails.
func ForAnyChild[T ChildMapper[T]](t Transform[T]) Transform[T] {
	keep := t.OrElse(Succeed[T]())
	return func(x T) (T, bool) {
		return x.MapChildren(keep)
	}
}

// TopDown applies t to a node and, only when that succeeds, recursively
// applies itself to every child of the already-transformed node, so children
// observe their new parent. It fails if the root application fails or any
// child's recursive application fails.
func TopDown[T ChildMapper[T]](t Transform[T]) Transform[T] {
	var self Transform[T]
	self = func(x T) (T, bool) {
		y, ok := t(x)
		if !ok {
			var zero T
			return zero, false
		}
		return y.MapChildren(func(c T) (T, bool) { return self(c) })
	}
	return self
}

// BottomUp transforms all children first, then applies t to the node with
// transformed children. It fails if either step fails.
func BottomUp[T ChildMapper[T]](t Transform[T]) Transform[T] {
	var self Transform[T]
	self = func(x T) (T, bool) {
		y, ok := x.MapChildren(func(c T) (T, bool) { return self(c) })
		if !ok {
			var zero T
			return zero, false
		}
		return t(y)
	}
	return self
}

// FoldRecursively builds a self-referential transform: f receives the
// recursive transform itself alongside the value, and may invoke it to
// descend into substructure. This parameterizes reconstruction logic
// without hard-coding a recursion shape.
func FoldRecursively[T any](f func(self Transform[T], x T) (T, bool)) Transform[T] {
	var self Transform[T]
	self = func(x T) (T, bool) {
		return f(self, x)
	}
	return self
}
