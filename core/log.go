package core

// LogWriter receives one fully formatted log line without a trailing
// newline. The slice is only valid for the duration of the call; writers
// that keep it must copy. Platforms install a writer for their UART, USB
// CDC or stdout.
type LogWriter func(line []byte)

// Discard drops every line.
func Discard([]byte) {}

// Level is the severity of a log record.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "dbg"
	case LevelInfo:
		return "inf"
	case LevelWarn:
		return "wrn"
	case LevelError:
		return "err"
	default:
		return "???"
	}
}

// ParseLevel accepts "debug", "info", "warn"/"warning" and "error" in any
// case. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	var b [8]byte
	n := 0
	for i := 0; i < len(s) && n < len(b); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[n] = c
		n++
	}
	switch string(b[:n]) {
	case "debug", "dbg":
		return LevelDebug
	case "warn", "warning", "wrn":
		return LevelWarn
	case "error", "err":
		return LevelError
	default:
		return LevelInfo
	}
}

type fieldKind uint8

const (
	kindInt fieldKind = iota
	kindUint
	kindHex
	kindHex32
	kindString
)

// Field is a typed key/value pair attached to a log record.
type Field struct {
	Key  string
	kind fieldKind
	num  uint64
	str  string
}

func Int(key string, v int64) Field    { return Field{Key: key, kind: kindInt, num: uint64(v)} }
func Uint(key string, v uint64) Field  { return Field{Key: key, kind: kindUint, num: v} }
func Hex(key string, v uint64) Field   { return Field{Key: key, kind: kindHex, num: v} }
func Hex32(key string, v uint32) Field { return Field{Key: key, kind: kindHex32, num: uint64(v)} }
func Str(key, v string) Field          { return Field{Key: key, kind: kindString, str: v} }

// Err renders err under "err".
func Err(err error) Field {
	if err == nil {
		return Str("err", "nil")
	}
	return Str("err", err.Error())
}

func (f *Field) format(l *lineBuf) {
	switch f.kind {
	case kindInt:
		l.putInt(int64(f.num))
	case kindUint:
		l.putUint(f.num)
	case kindHex:
		l.putString("0x")
		l.putHex(f.num, 0)
	case kindHex32:
		l.putString("0x")
		l.putHex(f.num, 8)
	default:
		for i := 0; i < len(f.str); i++ {
			if f.str[i] == ' ' || f.str[i] == '=' {
				l.putByte('"')
				l.putString(f.str)
				l.putByte('"')
				return
			}
		}
		l.putString(f.str)
	}
}

// Logger formats leveled records for one module into a fixed line buffer
// and hands them to a LogWriter. Formatting never touches the heap, so the
// converter interrupt may log; pair the logger with an AsyncWriter there so
// the device write happens in task context.
type Logger struct {
	module string
	level  Level
	w      LogWriter
	line   lineBuf
}

// NewLogger returns a logger at LevelInfo. A nil writer discards output.
func NewLogger(module string, w LogWriter) *Logger {
	if w == nil {
		w = Discard
	}
	return &Logger{module: module, level: LevelInfo, w: w}
}

func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

// Log formats "<lvl> module: msg key=value ..." and writes it.
func (l *Logger) Log(level Level, msg string, fields ...Field) {
	l.log(level, msg, "", fields)
}

// log appends suffix to msg, which lets callers compose messages such as
// "saadc_init error" without concatenating strings.
func (l *Logger) log(level Level, msg, suffix string, fields []Field) {
	if !l.Enabled(level) {
		return
	}
	// The line buffer is shared by task and interrupt context.
	st := maskInterrupts()
	b := &l.line
	b.reset()
	b.putByte('<')
	b.putString(level.String())
	b.putString("> ")
	b.putString(l.module)
	b.putString(": ")
	b.putString(msg)
	b.putString(suffix)
	for i := range fields {
		b.putByte(' ')
		b.putString(fields[i].Key)
		b.putByte('=')
		fields[i].format(b)
	}
	l.w(b.bytes())
	unmaskInterrupts(st)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, "", fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, "", fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, "", fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, "", fields) }

// AsyncWriter queues lines in a preallocated ring so interrupt handlers
// never block on the output device. Task context drains the ring with
// Flush. Lines are dropped when the ring is full.
type AsyncWriter struct {
	w       LogWriter
	slots   [][LineMax]byte
	lens    []int
	head    int
	count   int
	dropped uint32
}

// NewAsyncWriter allocates depth line slots in front of w.
func NewAsyncWriter(w LogWriter, depth int) *AsyncWriter {
	if depth <= 0 {
		depth = 16
	}
	if w == nil {
		w = Discard
	}
	return &AsyncWriter{
		w:     w,
		slots: make([][LineMax]byte, depth),
		lens:  make([]int, depth),
	}
}

// Write copies line into the next free slot. It never blocks or allocates.
func (a *AsyncWriter) Write(line []byte) {
	st := maskInterrupts()
	if a.count == len(a.slots) {
		a.dropped++
	} else {
		i := (a.head + a.count) % len(a.slots)
		a.lens[i] = copy(a.slots[i][:], line)
		a.count++
	}
	unmaskInterrupts(st)
}

// Flush writes queued lines to the device in order and returns how many
// were written. Call it from task context only.
func (a *AsyncWriter) Flush() int {
	n := 0
	for {
		st := maskInterrupts()
		if a.count == 0 {
			unmaskInterrupts(st)
			return n
		}
		i := a.head
		unmaskInterrupts(st)

		// The slot stays reserved until head moves past it.
		a.w(a.slots[i][:a.lens[i]])

		st = maskInterrupts()
		a.head = (a.head + 1) % len(a.slots)
		a.count--
		unmaskInterrupts(st)
		n++
	}
}

// Dropped reports how many lines were discarded because the ring was full.
func (a *AsyncWriter) Dropped() uint32 {
	st := maskInterrupts()
	d := a.dropped
	unmaskInterrupts(st)
	return d
}
