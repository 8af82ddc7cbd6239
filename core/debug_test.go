package core

import (
	"strings"
	"testing"
)

func captureDebug(t *testing.T) *strings.Builder {
	t.Helper()
	var out strings.Builder
	SetDebugWriter(func(s string) { out.WriteString(s) })
	SetDebugEnabled(true)
	t.Cleanup(func() {
		SetDebugWriter(nil)
		SetDebugEnabled(false)
	})
	return &out
}

func TestPrintRoutines(t *testing.T) {
	out := captureDebug(t)

	PrintStr("radionode up")
	PrintInt16("temp=", -12)
	PrintInt16("min=", -32768)
	PrintUInt16("vbat=", 65535)
	PrintUInt16("zero=", 0)

	want := "radionode up\r\n" +
		"temp=-12\r\n" +
		"min=-32768\r\n" +
		"vbat=65535\r\n" +
		"zero=0\r\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEmitTranslatesNewlines(t *testing.T) {
	out := captureDebug(t)

	PrintStr("a\nb\r\nc")

	if got, want := out.String(), "a\r\nb\r\r\nc\r\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrintDisabled(t *testing.T) {
	out := captureDebug(t)
	SetDebugEnabled(false)

	PrintStr("hidden")
	PrintInt16("x=", 1)
	DumpDispatchTrace()

	if out.Len() != 0 {
		t.Errorf("disabled debug wrote %q", out.String())
	}
}

func TestDispatchTraceKeepsNewest(t *testing.T) {
	resetCore(t, 0)

	total := DispatchRingSize + 8
	for i := 0; i < total; i++ {
		Dispatch(SourceSysTick)
	}

	trace := DispatchTrace()
	if len(trace) != DispatchRingSize {
		t.Fatalf("trace length = %d, want %d", len(trace), DispatchRingSize)
	}
	if trace[0].Seq != 9 {
		t.Errorf("oldest seq = %d, want 9", trace[0].Seq)
	}
	last := trace[len(trace)-1]
	if last.Seq != uint32(total) || last.Tick != uint32(total) {
		t.Errorf("newest = %+v, want seq=tick=%d", last, total)
	}
}

func TestDumpDispatchTrace(t *testing.T) {
	resetCore(t, 99)
	out := captureDebug(t)

	Dispatch(SourceSysTick)
	Dispatch(SourceExtPin)
	DumpDispatchTrace()

	want := "[IRQ] === dispatch trace ===\r\n" +
		"[IRQ] #1 systick tick=100\r\n" +
		"[IRQ] #2 extpin tick=100\r\n" +
		"[IRQ] === end ===\r\n"
	if got := out.String(); got != want {
		t.Errorf("dump = %q, want %q", got, want)
	}
}

func TestItoa(t *testing.T) {
	testCases := []struct {
		in   int32
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-7, "-7"},
		{2147483647, "2147483647"},
		{-2147483648, "-2147483648"},
	}
	for _, tc := range testCases {
		if got := itoa(tc.in); got != tc.want {
			t.Errorf("itoa(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := utoa(4294967295); got != "4294967295" {
		t.Errorf("utoa(max) = %q", got)
	}
}
