package core

// DebugWriter receives raw text for the debug UART. Line endings arrive
// already translated to CRLF.
type DebugWriter func(string)

// DispatchEvent captures one vector entry for post-mortem analysis
type DispatchEvent struct {
	Source Source
	Tick   uint32 // tick observed after the handler returned
	Seq    uint32 // running dispatch number, 0 marks an empty slot
}

const (
	DispatchRingSize = 32 // Keep the last 32 vector entries
)

var (
	// debugWrite is the platform output function; no-op until SetDebugWriter
	debugWrite DebugWriter = func(s string) {}

	// debugEnabled mirrors the board's DebugSerial setting
	debugEnabled bool = false

	dispatchRing     [DispatchRingSize]DispatchEvent
	dispatchRingHead uint8
	dispatchSeq      uint32
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(s string) {}
	}
	debugWrite = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// emit writes s with every "\n" expanded to "\r\n", including one already
// preceded by "\r", the way a serial putchar would
func emit(s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			debugWrite(s[start:i] + "\r\n")
			start = i + 1
		}
	}
	if start < len(s) {
		debugWrite(s[start:])
	}
}

// PrintStr writes text followed by a line break
func PrintStr(text string) {
	if !debugEnabled {
		return
	}
	emit(text + "\n")
}

// DebugPrintln is an alias of PrintStr for call sites shared with host code
func DebugPrintln(msg string) {
	PrintStr(msg)
}

// PrintInt16 writes name immediately followed by a signed decimal value
func PrintInt16(name string, value int16) {
	if !debugEnabled {
		return
	}
	emit(name + itoa(int32(value)) + "\n")
}

// PrintUInt16 writes name immediately followed by an unsigned decimal value
func PrintUInt16(name string, value uint16) {
	if !debugEnabled {
		return
	}
	emit(name + utoa(uint32(value)) + "\n")
}

// recordDispatch runs in interrupt context; keep it allocation-free.
func recordDispatch(src Source, tick uint32) {
	dispatchSeq++
	idx := dispatchRingHead
	dispatchRing[idx] = DispatchEvent{Source: src, Tick: tick, Seq: dispatchSeq}
	dispatchRingHead = (idx + 1) % DispatchRingSize
}

// DispatchTrace returns the recorded vector entries, oldest first.
func DispatchTrace() []DispatchEvent {
	state := disableInterrupts()
	ring := dispatchRing
	start := dispatchRingHead
	restoreInterrupts(state)

	events := make([]DispatchEvent, 0, DispatchRingSize)
	for i := uint8(0); i < DispatchRingSize; i++ {
		evt := ring[(start+i)%DispatchRingSize]
		if evt.Seq == 0 {
			continue
		}
		events = append(events, evt)
	}
	return events
}

// DumpDispatchTrace writes the dispatch ring through the debug writer.
// Normal context only.
func DumpDispatchTrace() {
	if !debugEnabled {
		return
	}
	emit("[IRQ] === dispatch trace ===\n")
	for _, evt := range DispatchTrace() {
		emit("[IRQ] #" + utoa(evt.Seq) + " " + evt.Source.String() + " tick=" + utoa(evt.Tick) + "\n")
	}
	emit("[IRQ] === end ===\n")
}

// ClearDispatchTrace empties the dispatch ring
func ClearDispatchTrace() {
	state := disableInterrupts()
	for i := range dispatchRing {
		dispatchRing[i] = DispatchEvent{}
	}
	dispatchRingHead = 0
	dispatchSeq = 0
	restoreInterrupts(state)
}
