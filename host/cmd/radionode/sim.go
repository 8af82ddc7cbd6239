package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"radionode/app"
	"radionode/config"
	"radionode/core"
	"radionode/i2c"
	"radionode/radio"
	"radionode/sim"
)

var (
	simDuration       time.Duration
	simPacketInterval time.Duration
	simCRCErrorRate   float64
	simTemperature    int16
	simTrace          bool
	simEvents         bool

	simCmd = &cobra.Command{
		Use:   "sim",
		Short: "Run the firmware against simulated interrupt sources",
		RunE:  runSim,
	}
)

func init() {
	simCmd.Flags().DurationVar(&simDuration, "duration", 10*time.Second, "how long to run")
	simCmd.Flags().DurationVar(&simPacketInterval, "packet-interval", 1500*time.Millisecond, "mean time between received packets (0 disables)")
	simCmd.Flags().Float64Var(&simCRCErrorRate, "crc-error-rate", 0.1, "fraction of packets received with a bad CRC")
	simCmd.Flags().Int16Var(&simTemperature, "temperature", 21, "sensor reading")
	simCmd.Flags().BoolVar(&simTrace, "trace", false, "dump the dispatch trace at the end")
	simCmd.Flags().BoolVar(&simEvents, "events", false, "print every non-timer interrupt as it is collected")
}

func runSim(cmd *cobra.Command, args []string) error {
	board, err := loadBoard()
	if err != nil {
		return err
	}
	tickUs, err := board.TickPeriodUs()
	if err != nil {
		return err
	}

	machine, err := sim.New()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	gpio := sim.NewGPIO(func(pin core.GPIOPin, value bool) {
		if uint32(pin) == board.Pins.Buzzer && value {
			fmt.Fprint(out, "*beep*\r\n")
		}
	})
	sensor := sim.NewSensor(board.I2C.SensorAddress, simTemperature)
	cs := core.GPIOPin(board.Pins.RadioCS)
	chip := sim.NewRadio(gpio, cs)

	core.SetGPIODriver(gpio)
	bus := i2c.NewBus(sensor, board.I2C.TimeoutTicks)
	node := app.New(board, bus, radio.New(chip, cs))

	core.SetDebugWriter(func(s string) { fmt.Fprint(out, s) })
	core.SetDebugEnabled(board.DebugSerial)
	machine.Install(node.Vectors())

	ctx, cancel := context.WithTimeout(context.Background(), simDuration)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	sources := machine.Start(ctx, sim.Config{
		TickPeriod:   time.Duration(tickUs) * time.Microsecond,
		WakeupPeriod: time.Duration(board.WakeupPeriodMs) * time.Millisecond,
	})
	if simPacketInterval > 0 {
		go receivePackets(ctx, machine, chip)
	}

	var printEvent func(sim.Event)
	if simEvents {
		printEvent = func(ev sim.Event) {
			if ev.Source != core.SourceSysTick {
				fmt.Fprintf(out, "[EVT] %s tick=%d\r\n", ev.Source, ev.Tick)
			}
		}
	}
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		machine.Collect(ctx, sim.CollectInterval, printEvent)
	}()

	runErr := make(chan error, 1)
	go func() {
		runErr <- core.Run(bringUpSteps(board), node)
	}()

	select {
	case err := <-runErr:
		cancel()
		sources.Wait()
		<-collected
		return err
	case <-ctx.Done():
	}
	sources.Wait()
	<-collected

	if simTrace {
		core.DumpDispatchTrace()
	}
	// Loop may still be servicing the last packet; its counters are atomics.
	report := machine.Report()
	fmt.Fprintf(out, "\r\npackets: %d (crc errors: %d), wake-ups: %d, last temperature: %d\r\n",
		node.Packets(), node.CRCErrors(), node.Wakeups(), node.LastTemperature())
	return report.Write(out)
}

// bringUpSteps mirrors the target's ordered bring-up on simulated hardware
func bringUpSteps(board *config.BoardConfig) []core.BringUpStep {
	return []core.BringUpStep{
		{Name: "clock", Run: board.Validate},
		{Name: "gpio", Run: func() error {
			return core.MustGPIO().ConfigureInputPullUp(core.GPIOPin(board.Pins.RadioIRQ))
		}},
		{Name: "timer", Run: func() error {
			_, err := board.TickPeriod()
			return err
		}},
		{Name: "uart", Run: func() error { return nil }},
		{Name: "rtc", Run: func() error {
			core.WaitMs(board.RTCSettleTicks)
			_, err := board.WakeupCount()
			return err
		}},
	}
}

// receivePackets feeds the radio at random intervals around the mean
func receivePackets(ctx context.Context, machine *sim.Machine, chip *sim.Radio) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		wait := time.Duration(rng.ExpFloat64() * float64(simPacketInterval))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		chip.Receive(rng.Float64() >= simCRCErrorRate)
		machine.Raise(core.SourceExtPin)
	}
}
