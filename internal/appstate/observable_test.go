package appstate

import (
	"reflect"
	"testing"
)

func TestObservable_SubscribeInvokesImmediately(t *testing.T) {
	o := NewObservable(42)

	var got []int
	o.Subscribe(func(v int) { got = append(got, v) })

	if !reflect.DeepEqual(got, []int{42}) {
		t.Errorf("got %v, want immediate invocation with 42", got)
	}
}

func TestObservable_NotifiesInSubscriptionOrder(t *testing.T) {
	o := NewObservable("")

	var order []string
	o.Subscribe(func(v string) { order = append(order, "a:"+v) })
	o.Subscribe(func(v string) { order = append(order, "b:"+v) })
	order = nil

	o.Set("x")

	want := []string{"a:x", "b:x"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestObservable_Unsubscribe(t *testing.T) {
	o := NewObservable(0)

	var aCount, bCount int
	unsubA := o.Subscribe(func(int) { aCount++ })
	o.Subscribe(func(int) { bCount++ })

	unsubA()
	o.Set(1)
	o.Set(2)

	if aCount != 1 {
		t.Errorf("aCount = %d, want 1 (only the immediate invocation)", aCount)
	}
	if bCount != 3 {
		t.Errorf("bCount = %d, want 3", bCount)
	}

	// Unsubscribing twice is harmless.
	unsubA()
}

func TestObservable_NotifyWithoutNewValue(t *testing.T) {
	o := NewObservable([]int{1})

	var calls int
	o.Subscribe(func([]int) { calls++ })

	o.Notify()
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !reflect.DeepEqual(o.Get(), []int{1}) {
		t.Errorf("Notify must not replace the value")
	}
}
