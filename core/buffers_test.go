package core

import "testing"

func TestBufferRotationAlternates(t *testing.T) {
	m := NewBufferManager(16)
	conv := newMockConverter()

	var last = -1
	for i := 0; i < 10; i++ {
		idx, err := m.Supply(conv)
		if err != nil {
			t.Fatalf("Supply %d failed: %v", i, err)
		}
		if idx == last {
			t.Fatalf("Buffer %d handed out twice in a row", idx)
		}
		if idx != i%2 {
			t.Errorf("Request %d: expected buffer %d, got %d", i, i%2, idx)
		}
		last = idx
		m.BeginDrain(idx)
		m.EndDrain(idx)
	}

	for i, buf := range conv.set {
		if m.Index(buf) != i%2 {
			t.Errorf("SetBuffer call %d received buffer %d", i, m.Index(buf))
		}
	}
}

func TestBufferDistinctStorage(t *testing.T) {
	m := NewBufferManager(8)
	a, b := m.Buffer(0), m.Buffer(1)
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("Expected two buffers of 8, got %d and %d", len(a), len(b))
	}
	a[7] = 1
	if b[0] != 0 {
		t.Errorf("Writing past buffer 0 must not reach buffer 1")
	}
	if cap(a) != 8 {
		t.Errorf("Buffer 0 capacity must not extend into buffer 1, got %d", cap(a))
	}
	if m.Index(a) != 0 || m.Index(b) != 1 {
		t.Errorf("Index mismatch: %d %d", m.Index(a), m.Index(b))
	}
	if m.Index(make([]int16, 8)) != -1 || m.Index(nil) != -1 {
		t.Errorf("Foreign buffers must not be recognized")
	}
}

func TestBufferRefusesDrainingBuffer(t *testing.T) {
	m := NewBufferManager(4)
	conv := newMockConverter()

	if _, err := m.Supply(conv); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Supply(conv); err != nil {
		t.Fatal(err)
	}
	// Buffer 0 completes and is being scanned; the cursor points at it.
	if !m.BeginDrain(0) {
		t.Fatalf("Buffer 0 should have been owned by the converter")
	}
	idx, err := m.Supply(conv)
	if err != ErrBufferDraining || idx != 0 {
		t.Fatalf("Expected ErrBufferDraining for buffer 0, got %d %v", idx, err)
	}
	if m.Owner(0) != OwnerReducer {
		t.Errorf("Draining buffer must stay with the reducer, got %s", m.Owner(0))
	}
	if len(conv.set) != 2 {
		t.Errorf("Draining buffer must not reach the converter")
	}
}

func TestBufferCursorAdvancesOnFailure(t *testing.T) {
	m := NewBufferManager(4)
	conv := newMockConverter()
	conv.errs["buffer_set"] = CodeInvalidState

	idx, err := m.Supply(conv)
	if err != CodeInvalidState || idx != 0 {
		t.Fatalf("Expected failure on buffer 0, got %d %v", idx, err)
	}
	if m.Cursor() != 1 {
		t.Errorf("Expected cursor 1 after failed request, got %d", m.Cursor())
	}
	if m.Owner(0) != OwnerIdle {
		t.Errorf("Rejected buffer must stay idle, got %s", m.Owner(0))
	}
}

func TestBufferDrainOwnership(t *testing.T) {
	m := NewBufferManager(4)
	if m.BeginDrain(1) {
		t.Errorf("Idle buffer completion must be reported as not owned")
	}
	m.EndDrain(1)
	if m.Owner(1) != OwnerIdle {
		t.Errorf("Expected idle after drain, got %s", m.Owner(1))
	}
}
