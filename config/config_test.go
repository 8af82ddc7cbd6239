package config

import (
	"errors"
	"testing"
)

func TestDefaultTimeBase(t *testing.T) {
	cfg := Default()

	if got := cfg.TimerClockHz(); got != 125000 {
		t.Errorf("TimerClockHz = %d, want 125000", got)
	}
	period, err := cfg.TickPeriod()
	if err != nil {
		t.Fatalf("TickPeriod failed: %v", err)
	}
	if period != 124 {
		t.Errorf("TickPeriod = %d, want 124", period)
	}
	us, err := cfg.TickPeriodUs()
	if err != nil {
		t.Fatalf("TickPeriodUs failed: %v", err)
	}
	if us != 1000 {
		t.Errorf("TickPeriodUs = %d, want 1000", us)
	}

	if got := cfg.WakeupClockHz(); got != 593 {
		t.Errorf("WakeupClockHz = %d, want 593", got)
	}
	count, err := cfg.WakeupCount()
	if err != nil {
		t.Fatalf("WakeupCount failed: %v", err)
	}
	if count != 592 {
		t.Errorf("WakeupCount = %d, want 592", count)
	}
}

func TestTickPeriodRange(t *testing.T) {
	testCases := []struct {
		name      string
		prescaler uint32
		tickHz    uint32
		want      uint32
		wantErr   error
	}{
		{"max time base", 128, 488, 255, nil},
		{"min time base", 128, 62500, 1, nil},
		{"too slow", 128, 100, 0, ErrTickPeriodRange},
		{"too fast", 128, 200000, 0, ErrTickPeriodRange},
		{"zero prescaler", 0, 1000, 0, ErrZeroDivider},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.TickPrescaler = tc.prescaler
			cfg.TickHz = tc.tickHz

			got, err := cfg.TickPeriod()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("TickPeriod = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTicksFromMs(t *testing.T) {
	cfg := Default()
	if got := cfg.TicksFromMs(250); got != 250 {
		t.Errorf("TicksFromMs(250) = %d, want 250", got)
	}

	cfg.TickHz = 512
	if got := cfg.TicksFromMs(1); got != 1 {
		t.Errorf("TicksFromMs(1) at 512 Hz = %d, want 1 (rounded up)", got)
	}
	if got := cfg.TicksFromMs(1000); got != 512 {
		t.Errorf("TicksFromMs(1000) at 512 Hz = %d, want 512", got)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"name":"bench","uart_baud":9600,"i2c":{"sensor_address":72,"timeout_ticks":3}}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "bench" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.UARTBaud != 9600 {
		t.Errorf("UARTBaud = %d, want 9600", cfg.UARTBaud)
	}
	if cfg.SysClockHz != 16000000 || cfg.TickPrescaler != 128 || cfg.TickHz != 1000 {
		t.Errorf("clock defaults not applied: %+v", cfg)
	}
	if cfg.I2C.TimeoutTicks != 3 {
		t.Errorf("I2C.TimeoutTicks = %d, want 3", cfg.I2C.TimeoutTicks)
	}
	if cfg.I2C.FrequencyHz != 100000 {
		t.Errorf("I2C.FrequencyHz = %d, want default", cfg.I2C.FrequencyHz)
	}
	if cfg.Pins != Default().Pins {
		t.Errorf("Pins = %+v, want reference pin map", cfg.Pins)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	if _, err := LoadConfig([]byte(`{"name":`)); err == nil {
		t.Error("expected parse error")
	}

	_, err := LoadConfig([]byte(`{"tick_hz":10}`))
	if !errors.Is(err, ErrTickPeriodRange) {
		t.Errorf("err = %v, want ErrTickPeriodRange", err)
	}

	_, err = LoadConfig([]byte(`{"wakeup_period_ms":600000}`))
	if !errors.Is(err, ErrRTCPeriodRange) {
		t.Errorf("err = %v, want ErrRTCPeriodRange", err)
	}
}
