package basket

import (
	"github.com/stefanpenner/tandem/pkg/analysis"
	"github.com/stefanpenner/tandem/pkg/store"
	"go.uber.org/zap"
)

// State is handed to observers after every change.
type State struct {
	Goals       []store.Goal   `json:"goals"`
	Stats       analysis.Stats `json:"stats"`
	Suggestions []string       `json:"suggestions"`
}

// Observer is notified synchronously, in registration order, after every
// change to a basket.
type Observer interface {
	BasketChanged(State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(State)

func (f ObserverFunc) BasketChanged(s State) { f(s) }

type subscription struct {
	id       uint64
	observer Observer
}

// Subscribe registers o and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (b *Basket) Subscribe(o Observer) func() {
	b.nextSub++
	id := b.nextSub
	b.subs = append(b.subs, subscription{id: id, observer: o})

	return func() {
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Basket) notify(state State) {
	subs := append([]subscription(nil), b.subs...)
	for _, sub := range subs {
		// Each observer gets its own copy of the goals.
		s := state
		s.Goals = cloneGoals(state.Goals)
		b.safeCall(sub, s)
	}
}

// safeCall isolates observers from each other: a panic is logged and the
// remaining observers still run.
func (b *Basket) safeCall(sub subscription, state State) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("basket observer panicked",
				zap.Uint64("subscription", sub.id),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	sub.observer.BasketChanged(state)
}
