package appstate

// Observable holds a current value and notifies subscribers synchronously,
// in subscription order, on every Set. It is not safe for concurrent use:
// the application drives all state changes from a single goroutine, and a
// mutation is never partially visible to some subscribers and not others.
type Observable[T any] struct {
	value  T
	subs   []subscriber[T]
	nextID int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewObservable creates an observable with an initial value.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	return o.value
}

// Set stores a new value and notifies every subscriber.
func (o *Observable[T]) Set(v T) {
	o.value = v
	o.notify()
}

// Notify re-announces the current value without replacing it. This is the
// escape hatch for in-place mutation: subscribers must not assume a
// notification implies a new value object.
func (o *Observable[T]) Notify() {
	o.notify()
}

// Subscribe registers a callback, immediately invokes it with the current
// value, and returns an unsubscribe function.
func (o *Observable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	id := o.nextID
	o.nextID++
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})
	fn(o.value)

	return func() {
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

func (o *Observable[T]) notify() {
	for _, s := range o.subs {
		s.fn(o.value)
	}
}
