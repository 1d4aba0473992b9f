package core

// ErrBufferDraining is returned when the next buffer in rotation is still
// being reduced.
const ErrBufferDraining = Error("buffer is still being reduced")

// Owner says who may touch a buffer.
type Owner uint8

const (
	OwnerIdle      Owner = iota // free to hand out
	OwnerConverter              // queued or being written by the converter
	OwnerReducer                // being scanned inside BufferDone
)

func (o Owner) String() string {
	switch o {
	case OwnerIdle:
		return "idle"
	case OwnerConverter:
		return "converter"
	case OwnerReducer:
		return "reducer"
	default:
		return "unknown"
	}
}

// BufferManager owns the two sample buffers and hands them to the
// converter in strict rotation.
type BufferManager struct {
	bufs   [2][]int16
	owner  [2]Owner
	cursor int
	size   int
}

// NewBufferManager allocates two buffers of size samples each.
func NewBufferManager(size int) *BufferManager {
	backing := make([]int16, 2*size)
	return &BufferManager{
		bufs: [2][]int16{
			backing[:size:size],
			backing[size:],
		},
		size: size,
	}
}

// Buffer returns buffer i (0 or 1).
func (m *BufferManager) Buffer(i int) []int16 {
	return m.bufs[i]
}

// Size is the capacity of each buffer.
func (m *BufferManager) Size() int {
	return m.size
}

// Cursor is the index the next Supply will hand out.
func (m *BufferManager) Cursor() int {
	return m.cursor
}

// Owner reports who currently holds buffer i.
func (m *BufferManager) Owner(i int) Owner {
	return m.owner[i]
}

// Index identifies buf as one of the managed buffers, or -1.
func (m *BufferManager) Index(buf []int16) int {
	if len(buf) == 0 {
		return -1
	}
	for i := range m.bufs {
		if &m.bufs[i][0] == &buf[0] {
			return i
		}
	}
	return -1
}

// Supply hands the buffer at the cursor to conv and advances the cursor.
// The cursor advances even when conv rejects the buffer; the rejected
// buffer stays idle and the converter is left without a next buffer.
func (m *BufferManager) Supply(conv Converter) (int, error) {
	idx := m.cursor
	m.cursor = (m.cursor + 1) % 2
	if m.owner[idx] == OwnerReducer {
		return idx, ErrBufferDraining
	}
	if err := conv.SetBuffer(m.bufs[idx], m.size); err != nil {
		return idx, err
	}
	m.owner[idx] = OwnerConverter
	return idx, nil
}

// BeginDrain moves buffer i to the reducer. It reports false when the
// converter did not own the buffer, which means a completion arrived for
// a buffer that was never handed out again.
func (m *BufferManager) BeginDrain(i int) bool {
	ok := m.owner[i] == OwnerConverter
	m.owner[i] = OwnerReducer
	return ok
}

// EndDrain releases buffer i after reduction.
func (m *BufferManager) EndDrain(i int) {
	m.owner[i] = OwnerIdle
}
