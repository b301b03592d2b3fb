// Command channelwatch-rig drives a simulation with a real
// hardware-in-the-loop RigController backend attached, demonstrating
// that the side-effect sink never perturbs the deterministic tick
// loop it observes.
package main

/*------------------------------------------------------------------
 *
 * Purpose:   	Hardware-in-the-loop demo: retune a real radio (or pulse
 *		a GPIO antenna relay) in lockstep with a simulated
 *		receiver.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	channelwatch "github.com/chwatch/channelwatch/src"
)

func main() {
	backend := pflag.String("backend", "noop", "Rig backend: noop, hamlib, gpio.")
	hamlibModel := pflag.Int("hamlib-model", 1, "Hamlib rig model number.")
	hamlibPort := pflag.String("hamlib-port", "/dev/ttyUSB0", "Hamlib rig control port.")
	gpioChip := pflag.String("gpio-chip", "gpiochip0", "gpiod chip name for the antenna relay line.")
	gpioOffset := pflag.Int("gpio-offset", 0, "gpiod line offset for the antenna relay.")
	steps := pflag.Int("steps", 2000, "Number of ticks to run.")
	pflag.Parse()

	var rig channelwatch.RigController = channelwatch.NoopRig{}

	switch *backend {
	case "hamlib":
		h, err := channelwatch.NewHamlib(*hamlibModel, *hamlibPort)
		if err != nil {
			fmt.Fprintln(os.Stderr, "channelwatch-rig:", err)
			os.Exit(1)
		}
		defer h.Close()
		rig = h
	case "gpio":
		g, err := channelwatch.NewGPIOAntennaRelay(*gpioChip, *gpioOffset)
		if err != nil {
			fmt.Fprintln(os.Stderr, "channelwatch-rig:", err)
			os.Exit(1)
		}
		defer g.Close()
		rig = g
	case "noop":
	default:
		fmt.Fprintf(os.Stderr, "channelwatch-rig: unknown backend %q\n", *backend)
		os.Exit(1)
	}

	logger := channelwatch.NewLogger(os.Stderr, log.InfoLevel)
	sim := channelwatch.NewSimulator(channelwatch.SimulatorConfig{
		Rig:    rig,
		Logger: logger,
	})
	sim.Run(*steps)

	channelwatch.WriteConsoleSummary(os.Stdout, sim.Bank())
}
