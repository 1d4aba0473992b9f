package sim

// Timer is a callback scheduled in virtual time.
type Timer struct {
	WakeTime uint64 // nanoseconds since the simulation started
	Handler  func(*Timer) uint8
	Next     *Timer

	queued bool
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler runs Timers in WakeTime order. Timers with equal WakeTime run
// in the order they were scheduled.
type Scheduler struct {
	list *Timer
	now  uint64
}

// Now is the current virtual time in nanoseconds.
func (s *Scheduler) Now() uint64 {
	return s.now
}

// Schedule queues t. A Timer already queued is moved.
func (s *Scheduler) Schedule(t *Timer) {
	if t.queued {
		s.Cancel(t)
	}
	s.insert(t)
}

// After schedules t delay nanoseconds from now.
func (s *Scheduler) After(t *Timer, delay uint64) {
	t.WakeTime = s.now + delay
	s.Schedule(t)
}

func (s *Scheduler) insert(t *Timer) {
	t.queued = true
	if s.list == nil || t.WakeTime < s.list.WakeTime {
		t.Next = s.list
		s.list = t
		return
	}

	current := s.list
	for current.Next != nil && current.Next.WakeTime <= t.WakeTime {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Cancel removes t if it is queued.
func (s *Scheduler) Cancel(t *Timer) {
	if !t.queued {
		return
	}
	if s.list == t {
		s.list = t.Next
	} else {
		for cur := s.list; cur != nil; cur = cur.Next {
			if cur.Next == t {
				cur.Next = t.Next
				break
			}
		}
	}
	t.Next = nil
	t.queued = false
}

// Pending reports whether any Timer is queued.
func (s *Scheduler) Pending() bool {
	return s.list != nil
}

// Step runs the earliest Timer and reports whether one ran.
func (s *Scheduler) Step() bool {
	t := s.list
	if t == nil {
		return false
	}
	s.list = t.Next
	t.Next = nil
	t.queued = false
	if t.WakeTime > s.now {
		s.now = t.WakeTime
	}
	if t.Handler(t) == SF_RESCHEDULE {
		s.insert(t)
	}
	return true
}

// RunUntil runs every Timer due at or before deadline, then advances the
// clock to deadline.
func (s *Scheduler) RunUntil(deadline uint64) {
	for s.list != nil && s.list.WakeTime <= deadline {
		s.Step()
	}
	if deadline > s.now {
		s.now = deadline
	}
}

// RunFor runs the simulation for d nanoseconds.
func (s *Scheduler) RunFor(d uint64) {
	s.RunUntil(s.now + d)
}
