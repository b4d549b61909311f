package ansi

// ListenerID identifies a registered listener for Off.
type ListenerID uint64

type listener[T any] struct {
	id      ListenerID
	fn      func(T)
	once    bool
	removed bool
}

// listeners is an ordered set of callbacks for one event.
//
// Dispatch walks a snapshot taken when the event fires, so callbacks added
// during dispatch only see later events. Once callbacks are detached before
// any callback of the event runs. A callback removed during dispatch (Off or
// clear) is skipped.
type listeners[T any] struct {
	items []*listener[T]
	// detached once callbacks still waiting to run in an active dispatch
	pending []*listener[T]
}

func (l *listeners[T]) add(id ListenerID, fn func(T), once bool) {
	l.items = append(l.items, &listener[T]{id: id, fn: fn, once: once})
}

func (l *listeners[T]) remove(id ListenerID) bool {
	for i, item := range l.items {
		if item.id == id {
			item.removed = true
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	for _, item := range l.pending {
		if item.id == id && !item.removed {
			item.removed = true
			return true
		}
	}
	return false
}

func (l *listeners[T]) clear() {
	for _, item := range l.items {
		item.removed = true
	}
	for _, item := range l.pending {
		item.removed = true
	}
	l.items = nil
	l.pending = nil
}

func (l *listeners[T]) len() int {
	return len(l.items)
}

func (l *listeners[T]) emit(v T) {
	if len(l.items) == 0 {
		return
	}
	snapshot := append([]*listener[T](nil), l.items...)
	kept := make([]*listener[T], 0, len(l.items))
	for _, item := range l.items {
		if item.once {
			l.pending = append(l.pending, item)
			continue
		}
		kept = append(kept, item)
	}
	l.items = kept

	for _, item := range snapshot {
		if item.removed {
			continue
		}
		if item.once {
			item.removed = true
		}
		item.fn(v)
	}

	if len(l.pending) > 0 {
		live := l.pending[:0]
		for _, item := range l.pending {
			if !item.removed {
				live = append(live, item)
			}
		}
		l.pending = live
	}
}
