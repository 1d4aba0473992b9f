package core

// Formatting helpers that avoid fmt and the heap so log lines can be built
// from interrupt context on small targets.

const hexDigits = "0123456789abcdef"

// LineMax bounds a formatted log line. Longer records are truncated.
const LineMax = 256

// lineBuf is a fixed-capacity byte buffer. Writes past LineMax are dropped.
type lineBuf struct {
	b [LineMax]byte
	n int
}

func (l *lineBuf) reset() { l.n = 0 }

func (l *lineBuf) bytes() []byte { return l.b[:l.n] }

func (l *lineBuf) putByte(c byte) {
	if l.n < len(l.b) {
		l.b[l.n] = c
		l.n++
	}
}

func (l *lineBuf) putString(s string) {
	l.n += copy(l.b[l.n:], s)
}

func (l *lineBuf) putInt(n int64) {
	if n < 0 {
		l.putByte('-')
		// Two's complement negation keeps MinInt64 intact as uint64.
		l.putUint(uint64(^n) + 1)
		return
	}
	l.putUint(uint64(n))
}

func (l *lineBuf) putUint(n uint64) {
	var tmp [20]byte
	pos := len(tmp)
	for {
		pos--
		tmp[pos] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	l.n += copy(l.b[l.n:], tmp[pos:])
}

// putHex writes v in lowercase hex, zero-padded to width digits. Width 0
// prints no leading zeros.
func (l *lineBuf) putHex(v uint64, width int) {
	var tmp [16]byte
	pos := len(tmp)
	for v > 0 || pos == len(tmp) || len(tmp)-pos < width {
		pos--
		tmp[pos] = hexDigits[v&0xf]
		v >>= 4
		if pos == 0 {
			break
		}
	}
	l.n += copy(l.b[l.n:], tmp[pos:])
}
