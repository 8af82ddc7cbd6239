package core

import "testing"

type recordingGPIO struct {
	set map[GPIOPin]bool
}

func (g *recordingGPIO) ConfigureOutput(pin GPIOPin, initial bool) error {
	return g.SetPin(pin, initial)
}

func (g *recordingGPIO) ConfigureInputPullUp(pin GPIOPin) error { return nil }

func (g *recordingGPIO) SetPin(pin GPIOPin, value bool) error {
	g.set[pin] = value
	return nil
}

func (g *recordingGPIO) GetPin(pin GPIOPin) (bool, error) { return g.set[pin], nil }

func TestMustGPIOReturnsRegisteredDriver(t *testing.T) {
	g := &recordingGPIO{set: make(map[GPIOPin]bool)}
	SetGPIODriver(g)
	defer SetGPIODriver(nil)

	if err := MustGPIO().SetPin(25, true); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}
	if !g.set[25] {
		t.Error("pin write did not reach the registered driver")
	}
}

func TestMustGPIOPanicsWithoutDriver(t *testing.T) {
	SetGPIODriver(nil)
	defer func() {
		if recover() == nil {
			t.Error("MustGPIO did not panic with no driver registered")
		}
	}()
	MustGPIO()
}
