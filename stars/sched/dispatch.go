package sched

// Event identifies a class of user input.
type Event uint8

const (
	EventClick Event = iota + 1
	EventKey
)

// Dispatcher fans input events out to subscribers in subscription order.
type Dispatcher struct {
	next uint64
	subs map[Event][]subscription
}

type subscription struct {
	id uint64
	fn func()
}

// On subscribes fn to ev and returns a function that removes the subscription.
// Removing twice is harmless.
func (d *Dispatcher) On(ev Event, fn func()) (remove func()) {
	if d.subs == nil {
		d.subs = make(map[Event][]subscription)
	}
	d.next++
	id := d.next
	d.subs[ev] = append(d.subs[ev], subscription{id: id, fn: fn})
	return func() { d.remove(ev, id) }
}

func (d *Dispatcher) remove(ev Event, id uint64) {
	list := d.subs[ev]
	for i, s := range list {
		if s.id == id {
			d.subs[ev] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Emit calls every subscriber of ev. Subscribers removed during Emit still
// see the current event if they were registered when it started.
func (d *Dispatcher) Emit(ev Event) {
	list := append([]subscription(nil), d.subs[ev]...)
	for _, s := range list {
		s.fn()
	}
}

// Count returns the number of subscribers of ev.
func (d *Dispatcher) Count(ev Event) int { return len(d.subs[ev]) }

// Once subscribes fn to every event in evs. The first delivery of any of them
// runs fn and removes all of the subscriptions.
func (d *Dispatcher) Once(fn func(), evs ...Event) {
	removes := make([]func(), 0, len(evs))
	fired := false
	handler := func() {
		if fired {
			return
		}
		fired = true
		for _, rm := range removes {
			rm()
		}
		fn()
	}
	for _, ev := range evs {
		removes = append(removes, d.On(ev, handler))
	}
}
