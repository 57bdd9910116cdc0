// Command turbine-pitch holds a small wind turbine's shaft speed near its
// optimum by hill-climbing the blade pitch actuator, braking on emergency
// stop or load loss. Inputs come from real hardware, an internal plant
// model, or a serial co-simulation orchestrator.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/sweeney/turbine-pitch/internal/actuator"
	"github.com/sweeney/turbine-pitch/internal/adc"
	"github.com/sweeney/turbine-pitch/internal/control"
	"github.com/sweeney/turbine-pitch/internal/gpio"
	"github.com/sweeney/turbine-pitch/internal/pulse"
	"github.com/sweeney/turbine-pitch/internal/sim"
	"github.com/sweeney/turbine-pitch/internal/status"
)

// options is everything outside control.Config: input mode and hardware
// wiring.
type options struct {
	mode            string
	chip            string
	pinPulse        int
	pinEstop        int
	adcChannel      int
	actuatorBackend string
	servoChannel    int
	pwmPin          int
	wind            float64
	cosimPort       string
	cosimBaud       int
	printState      bool
}

func main() {
	cfg := control.Default()
	var opts options

	flag.StringVar(&opts.mode, "mode", "hw", `input mode: "hw", "fake" (internal plant), or "cosim" (serial orchestrator)`)

	flag.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "control loop interval")
	flag.DurationVar(&cfg.UpdateInterval, "update", cfg.UpdateInterval, "minimum time between actuator decisions")
	flag.DurationVar(&cfg.HeartbeatInterval, "heartbeat", cfg.HeartbeatInterval, "heartbeat interval (0 to disable)")
	flag.Float64Var(&cfg.LoadThreshold, "load-threshold", cfg.LoadThreshold, "load voltage (V) above which the load counts as disconnected")
	flag.BoolVar(&cfg.RPMEstopEnabled, "rpm-estop", cfg.RPMEstopEnabled, "trip the interlock on load loss (estop button always trips)")
	flag.Float64Var(&cfg.MaxShaftRPM, "max-rpm", cfg.MaxShaftRPM, "overspeed limit (RPM)")
	flag.Float64Var(&cfg.MinValidRPM, "min-valid-rpm", cfg.MinValidRPM, "lowest plausible instantaneous reading (RPM)")
	flag.Float64Var(&cfg.MaxValidRPM, "max-valid-rpm", cfg.MaxValidRPM, "highest plausible instantaneous reading (RPM)")
	flag.IntVar(&cfg.NumSamples, "samples", cfg.NumSamples, "RPM smoothing buffer size")
	flag.IntVar(&cfg.ActuatorMin, "actuator-min", cfg.ActuatorMin, "lower actuator bound (position units)")
	flag.IntVar(&cfg.ActuatorMax, "actuator-max", cfg.ActuatorMax, "upper actuator bound (position units)")
	flag.IntVar(&cfg.BrakePosition, "brake-pos", cfg.BrakePosition, "retraction angle on interlock trip (position units)")
	flag.IntVar(&cfg.InitialPosition, "initial-pos", cfg.InitialPosition, "assumed actuator position at startup (position units)")
	flag.IntVar(&cfg.StepSize, "step", cfg.StepSize, "actuator move per decision (position units)")

	flag.StringVar(&opts.chip, "chip", gpio.DefaultChip, "GPIO character device")
	flag.IntVar(&opts.pinPulse, "pin-pulse", gpio.DefaultPinPulse, "line offset of the shaft pulse sensor")
	flag.IntVar(&opts.pinEstop, "pin-estop", gpio.DefaultPinEstop, "line offset of the emergency-stop button")
	flag.IntVar(&opts.adcChannel, "adc-channel", adc.DefaultChannel, "ADS1015 channel of the load divider")
	flag.StringVar(&opts.actuatorBackend, "actuator", "pca9685", `actuator backend: "pca9685", "rpio", or "log"`)
	flag.IntVar(&opts.servoChannel, "servo-channel", 0, "PCA9685 channel of the pitch servo")
	flag.IntVar(&opts.pwmPin, "pwm-pin", 18, "Pi hardware PWM pin for the rpio backend")
	flag.Float64Var(&opts.wind, "wind", 8.0, "plant wind speed (m/s) in fake mode")
	flag.StringVar(&opts.cosimPort, "cosim-port", "/dev/ttyUSB0", "serial port of the co-sim orchestrator")
	flag.IntVar(&opts.cosimBaud, "cosim-baud", sim.DefaultBaud, "co-sim serial baud rate")
	flag.BoolVar(&opts.printState, "print-state", false, "print current input state and exit")

	flag.Parse()

	if err := run(cfg, opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg control.Config, opts options) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	capture := &pulse.Capture{}

	var (
		inputs    gpio.Inputs
		adcReader adc.Reader
		drive     actuator.Drive
		feed      func(position int, now time.Time)
		report    func(position int)
	)

	switch opts.mode {
	case "hw":
		realInputs, err := gpio.NewRealInputs(opts.chip, opts.pinPulse, opts.pinEstop, capture)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer realInputs.Close()
		inputs = realInputs

		if _, err := host.Init(); err != nil {
			return fmt.Errorf("init periph host: %w", err)
		}
		bus, err := i2creg.Open("")
		if err != nil {
			return fmt.Errorf("open i2c bus: %w", err)
		}
		defer bus.Close()

		reader, err := adc.NewRealReader(bus, opts.adcChannel)
		if err != nil {
			return fmt.Errorf("init adc: %w", err)
		}
		defer reader.Close()
		adcReader = reader

		switch opts.actuatorBackend {
		case "pca9685":
			d, err := actuator.NewPCA9685(bus, opts.servoChannel)
			if err != nil {
				return fmt.Errorf("init pca9685: %w", err)
			}
			drive = d
		case "rpio":
			d, err := actuator.NewRPiPWM(opts.pwmPin)
			if err != nil {
				return fmt.Errorf("init rpio pwm: %w", err)
			}
			drive = d
		case "log":
			drive = actuator.LogDrive{}
		default:
			return fmt.Errorf("unknown actuator backend %q", opts.actuatorBackend)
		}
		defer drive.Close()

	case "fake":
		// Estop never pressed, load always connected; the plant closes
		// the loop through the same capture path real pulses use.
		inputs = gpio.NewFakeInputs([]bool{false})
		adcReader = adc.NewFakeReader([]float64{3.0})
		drive = actuator.LogDrive{}
		plant := sim.NewPlant(opts.wind)
		feed = func(position int, _ time.Time) {
			rpm := plant.Step(float64(position), cfg.PollInterval)
			capture.Inject(sim.IntervalMicros(rpm))
		}
		log.Printf("fake plant: wind=%.1f m/s", opts.wind)

	case "cosim":
		inputs = gpio.NewFakeInputs([]bool{false})
		adcReader = adc.NewFakeReader([]float64{3.0})
		drive = actuator.LogDrive{}
		// Wired below once the tracker exists.

	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}

	if opts.printState {
		return printState(inputs, adcReader, cfg)
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Mode:            opts.mode,
		ActuatorBackend: opts.actuatorBackend,
		PollMs:          cfg.PollInterval.Milliseconds(),
		UpdateMs:        cfg.UpdateInterval.Milliseconds(),
		HeartbeatMs:     cfg.HeartbeatInterval.Milliseconds(),
		LoadThreshold:   cfg.LoadThreshold,
		MaxShaftRPM:     cfg.MaxShaftRPM,
		ActuatorMin:     cfg.ActuatorMin,
		ActuatorMax:     cfg.ActuatorMax,
		BrakePosition:   cfg.BrakePosition,
	})

	if opts.mode == "cosim" {
		port, err := sim.OpenSerial(opts.cosimPort, opts.cosimBaud)
		if err != nil {
			return fmt.Errorf("init cosim: %w", err)
		}
		defer port.Close()
		link := sim.NewLink(port)
		go cosimReceive(link, capture, tracker)
		report = func(position int) {
			if err := link.SendPitch(float64(position)); err != nil {
				log.Printf("cosim send error: %v", err)
			}
		}
		log.Printf("cosim link on %s at %d baud", opts.cosimPort, opts.cosimBaud)
	}

	log.Printf("%s", status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""))
	log.Printf("started: mode=%s poll=%v update=%v max-rpm=%g actuator=[%d,%d] brake=%d",
		opts.mode, cfg.PollInterval, cfg.UpdateInterval, cfg.MaxShaftRPM,
		cfg.ActuatorMin, cfg.ActuatorMax, cfg.BrakePosition)

	// Park the actuator at the assumed startup position so open-loop
	// tracking starts true.
	if err := drive.SetPosition(cfg.InitialPosition); err != nil {
		return fmt.Errorf("park actuator: %w", err)
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctrl := control.New(cfg)
	return runLoop(ctrl, capture, inputs, adcReader, drive, tracker, cfg, feed, report, time.Now, ticker.C, sigCh)
}

// runLoop is the control loop. feed (optional) refreshes synthetic pulse
// sources before each tick; report (optional) forwards committed positions
// to the co-sim link. Clock, ticker, and signals are injected for tests.
func runLoop(ctrl *control.Controller, capture *pulse.Capture, inputs gpio.Inputs, adcReader adc.Reader, drive actuator.Drive, tracker *status.Tracker, cfg control.Config, feed func(position int, now time.Time), report func(position int), now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			log.Printf("%s", status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName))
			return nil

		case <-tick:
			t := now()
			if feed != nil {
				feed(ctrl.Position(), t)
			}

			interval := capture.Take()

			estop, err := inputs.EstopAsserted()
			if err != nil {
				// Treat as released; the button is a manual input
				// and a flaky line must not feather the turbine.
				log.Printf("estop read error: %v", err)
				estop = false
			}

			volts, verr := adcReader.ReadVoltage()
			if verr != nil {
				log.Printf("adc read error: %v", verr)
			}

			out := ctrl.Tick(control.Input{
				IntervalMicros: interval,
				EstopAsserted:  estop,
				MeasuredVolts:  volts,
				LoadValid:      verr == nil,
				Time:           t,
			})

			if out.SampleRejected {
				log.Printf("rejected sample: %.1f RPM outside (%g, %g)",
					out.InstantRPM, cfg.MinValidRPM, cfg.MaxValidRPM)
			}

			if out.Command != nil {
				if out.Command.Brake {
					log.Printf("interlock trip: estop=%v load=%.2fV connected=%v -> brake position %d",
						estop, out.LoadVolts, out.LoadConnected, out.Command.Position)
				} else {
					log.Printf("tick: rpm=%.1f smoothed=%.1f load=%.2fV branch=%s position=%d",
						out.InstantRPM, out.SmoothedRPM, out.LoadVolts, out.Command.Branch, out.Command.Position)
				}
				if err := drive.SetPosition(out.Command.Position); err != nil {
					// Keep running: tracking is open loop and the next
					// decision re-commands a bounded position anyway.
					log.Printf("actuator error: %v", err)
				}
				if report != nil {
					report(out.Command.Position)
				}
			}

			tracker.Update(out.SmoothedRPM, ctrl.Position(), out.LoadVolts, out.LoadConnected, estop, out.Trip, ctrl.Counts())

			if cfg.HeartbeatInterval > 0 && t.Sub(lastHeartbeat) >= cfg.HeartbeatInterval {
				lastHeartbeat = t
				log.Printf("%s", status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", ""))
			}
		}
	}
}

// cosimReceive pumps orchestrator lines into the pulse capture until the
// port closes.
func cosimReceive(link *sim.Link, capture *pulse.Capture, tracker *status.Tracker) {
	for {
		msg, err := link.Next()
		if err != nil {
			log.Printf("cosim link closed: %v", err)
			return
		}
		switch msg.Kind {
		case sim.MessageRPM:
			capture.Inject(sim.IntervalMicros(msg.RPM))
		case sim.MessageStatus:
			if err := link.SendStatus(status.FormatJSON(tracker.Snapshot())); err != nil {
				log.Printf("cosim status reply error: %v", err)
			}
		default:
			if msg.Raw != "" {
				log.Printf("cosim: ignoring %q", msg.Raw)
			}
		}
	}
}

// printState reads the safety inputs once and reports them, mirroring the
// interlock's derivation.
func printState(inputs gpio.Inputs, adcReader adc.Reader, cfg control.Config) error {
	estop, err := inputs.EstopAsserted()
	if err != nil {
		return fmt.Errorf("read estop: %w", err)
	}
	volts, err := adcReader.ReadVoltage()
	if err != nil {
		return fmt.Errorf("read adc: %w", err)
	}

	loadVolts := volts / cfg.DividerRatio
	connected := loadVolts < cfg.LoadThreshold
	fmt.Printf("ESTOP: %s, LOAD: %.2fV (%s)\n",
		map[bool]string{true: "ASSERTED", false: "clear"}[estop],
		loadVolts,
		map[bool]string{true: "connected", false: "DISCONNECTED"}[connected])
	return nil
}
