package core

import (
	"math"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var out captureLog
	log := NewLogger("apm", out.write)

	log.Info("SAADC buffer filled",
		Hex("addr", 0x20001000),
		Int("avg0", -12),
		Uint("samples", 8000),
		Hex32("code", 0x0BAD0002),
		Str("op", "saadc_buffer_set"),
		Str("note", "two words"),
		Err(CodeNoMem))

	want := `<inf> apm: SAADC buffer filled addr=0x20001000 avg0=-12 samples=8000 code=0x0bad0002 op=saadc_buffer_set note="two words" err="resource exhausted"`
	if len(out.lines) != 1 || out.lines[0] != want {
		t.Errorf("Expected\n%s\ngot\n%v", want, out.lines)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var out captureLog
	log := NewLogger("apm", out.write)

	log.Debug("hidden")
	log.Warn("shown")
	if len(out.lines) != 1 || out.lines[0] != "<wrn> apm: shown" {
		t.Errorf("Unexpected output %v", out.lines)
	}

	log.SetLevel(LevelError)
	log.Warn("hidden")
	log.Error("failed")
	if len(out.lines) != 2 || out.lines[1] != "<err> apm: failed" {
		t.Errorf("Unexpected output %v", out.lines)
	}

	var nilLog *Logger
	if nilLog.Enabled(LevelError) {
		t.Error("Nil logger reported enabled")
	}
}

func TestNilWriterDiscards(t *testing.T) {
	log := NewLogger("apm", nil)
	log.Error("dropped", Err(nil))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"info":    LevelInfo,
		"Warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestNumberFormatting(t *testing.T) {
	tests := []struct {
		field Field
		want  string
	}{
		{Int("v", math.MinInt64), "v=-9223372036854775808"},
		{Int("v", -7), "v=-7"},
		{Int("v", 0), "v=0"},
		{Uint("v", math.MaxUint64), "v=18446744073709551615"},
		{Hex32("v", 0xBEEF), "v=0x0000beef"},
		{Hex("v", 0), "v=0x0"},
		{Hex("v", 0x40007000), "v=0x40007000"},
		{Hex("v", math.MaxUint64), "v=0xffffffffffffffff"},
		{Str("v", "a=b"), `v="a=b"`},
	}
	for _, tt := range tests {
		var out captureLog
		NewLogger("m", out.write).Info("x", tt.field)
		want := "<inf> m: x " + tt.want
		if len(out.lines) != 1 || out.lines[0] != want {
			t.Errorf("Expected %q, got %v", want, out.lines)
		}
	}
}

func TestLoggerTruncatesLongLines(t *testing.T) {
	var out captureLog
	log := NewLogger("apm", out.write)
	long := make([]byte, 2*LineMax)
	for i := range long {
		long[i] = 'x'
	}
	log.Info(string(long), Int("after", 1))
	if len(out.lines) != 1 || len(out.lines[0]) != LineMax {
		t.Errorf("Expected one %d byte line, got %v", LineMax, out.lines)
	}
}

func TestLoggerDoesNotAllocate(t *testing.T) {
	var n int
	log := NewLogger("apm", func(line []byte) { n += len(line) })
	allocs := testing.AllocsPerRun(100, func() {
		log.Info("SAADC buffer filled",
			Hex("addr", 0x20001000),
			Int("avg0", -12),
			Str("note", "two words"),
			Err(CodeNoMem))
	})
	if allocs != 0 {
		t.Errorf("Expected no allocations per record, got %v", allocs)
	}
	if n == 0 {
		t.Error("Nothing was written")
	}
}

func TestCodeText(t *testing.T) {
	if CodeBusy.Error() != "busy" {
		t.Errorf("Unexpected text %q", CodeBusy.Error())
	}
	if s := Code(0x1234).Error(); s != "unknown driver error" {
		t.Errorf("Unexpected text %q", s)
	}
	if StatusCode(nil) != CodeSuccess {
		t.Error("nil should map to success")
	}
	if StatusCode(ErrBufferDraining) != CodeInternal {
		t.Error("Core errors should map to internal")
	}
	if StatusCode(ErrResourceExhausted) != CodeNoMem {
		t.Error("Exhaustion should map to no memory")
	}
}

func TestAsyncWriterDrops(t *testing.T) {
	var got []string
	w := NewAsyncWriter(func(line []byte) { got = append(got, string(line)) }, 2)

	w.Write([]byte("a"))
	w.Write([]byte("b"))
	w.Write([]byte("c"))
	if w.Dropped() != 1 {
		t.Errorf("Expected one dropped line, got %d", w.Dropped())
	}
	if len(got) != 0 {
		t.Errorf("Expected nothing written before Flush, got %v", got)
	}

	if n := w.Flush(); n != 2 {
		t.Errorf("Expected 2 lines flushed, got %d", n)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected [a b], got %v", got)
	}

	// The ring wraps once drained.
	w.Write([]byte("d"))
	w.Write([]byte("e"))
	w.Flush()
	if len(got) != 4 || got[2] != "d" || got[3] != "e" {
		t.Errorf("Expected [a b d e], got %v", got)
	}
}

func TestAsyncWriterCopiesLine(t *testing.T) {
	var got []string
	w := NewAsyncWriter(func(line []byte) { got = append(got, string(line)) }, 4)
	log := NewLogger("apm", w.Write)

	log.Info("first")
	log.Info("second")
	w.Flush()
	if len(got) != 2 || got[0] != "<inf> apm: first" || got[1] != "<inf> apm: second" {
		t.Errorf("Unexpected lines %v", got)
	}

	var n int
	counted := NewAsyncWriter(func(line []byte) { n += len(line) }, 4)
	log = NewLogger("apm", counted.Write)
	allocs := testing.AllocsPerRun(100, func() {
		log.Warn("queued", Int("n", 1))
		counted.Flush()
	})
	if n == 0 {
		t.Error("Nothing was flushed")
	}
	if allocs != 0 {
		t.Errorf("Expected no allocations, got %v", allocs)
	}
}
