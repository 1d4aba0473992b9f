package sim

import "testing"

func recorder(order *[]int, id int) func(*Timer) uint8 {
	return func(*Timer) uint8 {
		*order = append(*order, id)
		return SF_DONE
	}
}

func TestSchedulerOrder(t *testing.T) {
	var s Scheduler
	var order []int

	timers := []*Timer{
		{WakeTime: 300, Handler: recorder(&order, 3)},
		{WakeTime: 100, Handler: recorder(&order, 1)},
		{WakeTime: 200, Handler: recorder(&order, 2)},
		{WakeTime: 100, Handler: recorder(&order, 4)},
	}
	for _, tm := range timers {
		s.Schedule(tm)
	}

	s.RunUntil(1000)
	want := []int{1, 4, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, order)
		}
	}
	if s.Now() != 1000 {
		t.Errorf("Expected clock at 1000, got %d", s.Now())
	}
	if s.Pending() {
		t.Error("Timers left pending")
	}
}

func TestSchedulerReschedule(t *testing.T) {
	var s Scheduler
	fired := 0
	tm := &Timer{WakeTime: 10}
	tm.Handler = func(tm *Timer) uint8 {
		fired++
		tm.WakeTime += 10
		return SF_RESCHEDULE
	}
	s.Schedule(tm)

	s.RunUntil(55)
	if fired != 5 {
		t.Errorf("Expected 5 firings by t=55, got %d", fired)
	}
	if !s.Pending() || tm.WakeTime != 60 {
		t.Errorf("Expected next firing at 60, got %d", tm.WakeTime)
	}
}

func TestSchedulerCancelAndMove(t *testing.T) {
	var s Scheduler
	var order []int
	a := &Timer{WakeTime: 10, Handler: recorder(&order, 1)}
	b := &Timer{WakeTime: 20, Handler: recorder(&order, 2)}
	s.Schedule(a)
	s.Schedule(b)

	s.Cancel(a)
	s.Cancel(a)
	b.WakeTime = 5
	s.Schedule(b)

	s.RunFor(100)
	if len(order) != 1 || order[0] != 2 {
		t.Errorf("Expected only timer 2 to run, got %v", order)
	}

	s.After(a, 7)
	if a.WakeTime != 107 {
		t.Errorf("Expected wake at 107, got %d", a.WakeTime)
	}
	if !s.Step() || s.Now() != 107 {
		t.Errorf("Expected step to t=107, clock %d", s.Now())
	}
	if s.Step() {
		t.Error("Step ran with nothing queued")
	}
}
