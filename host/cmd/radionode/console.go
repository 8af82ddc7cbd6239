package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"radionode/host/console"
	"radionode/host/serial"
)

var (
	consoleDevice string
	consoleBaud   int
	consoleRaw    bool

	consoleCmd = &cobra.Command{
		Use:   "console",
		Short: "Attach to the node's debug UART",
		RunE:  runConsole,
	}
)

func init() {
	consoleCmd.Flags().StringVarP(&consoleDevice, "device", "d", "/dev/ttyUSB0", "serial device path")
	consoleCmd.Flags().IntVarP(&consoleBaud, "baud", "b", 0, "baud rate (board setting when 0)")
	consoleCmd.Flags().BoolVar(&consoleRaw, "raw", false, "forward keystrokes to the device unbuffered")
}

func runConsole(cmd *cobra.Command, args []string) error {
	board, err := loadBoard()
	if err != nil {
		return err
	}

	cfg := serial.DefaultConfig(consoleDevice)
	cfg.Baud = int(board.UARTBaud)
	if consoleBaud != 0 {
		cfg.Baud = consoleBaud
	}

	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", consoleDevice, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if consoleRaw {
		restore, err := console.EnterRaw(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer restore()
		go func() {
			// Ctrl-C arrives as a byte in raw mode
			buf := make([]byte, 1)
			for {
				n, err := os.Stdin.Read(buf)
				if err != nil || n == 0 {
					return
				}
				if buf[0] == 0x03 {
					stop()
					return
				}
				if _, err := port.Write(buf[:n]); err != nil {
					return
				}
			}
		}()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connected to %s at %d baud\r\n", cfg.Device, cfg.Baud)

	err = console.NewReader(port).Run(ctx, func(l console.Line) {
		io.WriteString(out, console.Format(l)+"\r\n")
	})
	if err == context.Canceled {
		return nil
	}
	return err
}
