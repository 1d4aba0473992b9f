package sim

import "apm/core"

// Faults makes chosen driver operations fail. The zero value injects
// nothing.
type Faults struct {
	rules map[string]fault
	calls map[string]int
}

type fault struct {
	call int
	code core.Code
}

// Fail makes the call-th invocation of op (1-based) return code. A call
// of 0 fails every invocation.
func (f *Faults) Fail(op string, call int, code core.Code) {
	if f.rules == nil {
		f.rules = make(map[string]fault)
	}
	f.rules[op] = fault{call: call, code: code}
}

// Clear removes the rule for op.
func (f *Faults) Clear(op string) {
	delete(f.rules, op)
}

// Calls returns how many times op has been invoked.
func (f *Faults) Calls(op string) int {
	return f.calls[op]
}

func (f *Faults) check(op string) error {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
	r, ok := f.rules[op]
	if !ok {
		return nil
	}
	if r.call == 0 || r.call == f.calls[op] {
		return r.code
	}
	return nil
}
