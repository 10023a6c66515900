// Command locobot-teleop runs the locobot teleoperation daemon: it
// builds the actuator rig from configuration, starts the command
// gateway and drives the control loop until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/stephenadhi/go-locobot/internal/config"
	"github.com/stephenadhi/go-locobot/internal/log"
	"github.com/stephenadhi/go-locobot/pkg/canbase"
	"github.com/stephenadhi/go-locobot/pkg/dxl"
	"github.com/stephenadhi/go-locobot/pkg/gateway"
	"github.com/stephenadhi/go-locobot/pkg/joy"
	"github.com/stephenadhi/go-locobot/pkg/robot"
	"github.com/stephenadhi/go-locobot/pkg/sim"
	"github.com/stephenadhi/go-locobot/pkg/teleop"
	"github.com/stephenadhi/go-locobot/pkg/xsarm"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (or set LOCOBOT_CONFIG)")
	model := flag.String("model", "", "Robot model override, one of: "+strings.Join(robot.ModelNames(), ", "))
	simulate := flag.Bool("sim", false, "Force the simulated rig regardless of config")
	addr := flag.String("addr", "", "Gateway listen address override")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *model != "" {
		cfg.Robot.Model = *model
	}
	if *simulate {
		cfg.Robot.Sim = true
	}
	if *addr != "" {
		cfg.Gateway.Addr = *addr
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	log.InitWithFile(cfg.Log.Level, cfg.Log.File)

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Teleop daemon failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	m, ok := robot.LookupModel(cfg.Robot.Model)
	if !ok {
		return fmt.Errorf("unknown robot model %q, have %s", cfg.Robot.Model, strings.Join(robot.ModelNames(), ", "))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("Shutdown signal received")
		cancel()
	}()

	buf := joy.NewBuffer()
	rate := teleop.NewRateController(
		float64(cfg.Loop.StartHz), float64(cfg.Loop.MinHz), float64(cfg.Loop.MaxHz))

	loop, cleanup, err := buildController(ctx, cfg, m, buf, rate)
	defer cleanup()
	if err != nil {
		return err
	}

	gw := gateway.NewServer(buf, loop.Status)
	go func() {
		if err := gw.Listen(cfg.Gateway.Addr); err != nil {
			log.Error("Gateway stopped", "err", err)
			cancel()
		}
	}()
	defer gw.Shutdown()

	return loop.Run(ctx)
}

// buildController assembles the rig the config asks for and the
// matching controller variant. The returned cleanup closes whatever
// transports were opened.
func buildController(ctx context.Context, cfg *config.Config, m robot.Model, buf *joy.Buffer, rate *teleop.RateController) (*teleop.Controller, func(), error) {
	if cfg.Robot.Sim {
		return buildSimController(m, buf, rate)
	}
	return buildHardwareController(ctx, cfg, m, buf, rate)
}

func buildSimController(m robot.Model, buf *joy.Buffer, rate *teleop.RateController) (*teleop.Controller, func(), error) {
	camera := sim.NewCamera(m.Camera)
	base := sim.NewBase()
	cleanup := func() {}

	if !m.HasArm() {
		loop, err := teleop.NewBaseController(m, buf, rate, camera, base)
		return loop, cleanup, err
	}
	arm, err := sim.NewArm(*m.Arm)
	if err != nil {
		return nil, cleanup, err
	}
	loop, err := teleop.NewArmController(m, buf, rate, camera, arm, sim.NewGripper(), base)
	return loop, cleanup, err
}

func buildHardwareController(ctx context.Context, cfg *config.Config, m robot.Model, buf *joy.Buffer, rate *teleop.RateController) (*teleop.Controller, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var base robot.Base
	if cfg.Robot.BaseInterface != "" {
		cb, err := canbase.Dial(ctx, cfg.Robot.BaseInterface)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { cb.Close() })
		base = cb
	}

	bus, err := dxl.Open(cfg.Robot.ArmPort, cfg.Robot.ArmBaud)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, func() { bus.Close() })

	camera, err := xsarm.NewCamera(bus, m.Camera, xsarm.DefaultPanID, xsarm.DefaultTiltID)
	if err != nil {
		return nil, cleanup, err
	}

	if !m.HasArm() {
		if base == nil {
			return nil, cleanup, fmt.Errorf("model %s needs robot.baseInterface", m.Name)
		}
		loop, err := teleop.NewBaseController(m, buf, rate, camera, base)
		return loop, cleanup, err
	}

	// The hardware arm keeps IK behind the solver contract; the
	// analytic model doubles as the onboard solver.
	solver, err := sim.NewSolver(*m.Arm)
	if err != nil {
		return nil, cleanup, err
	}
	arm, err := xsarm.NewArm(bus, *m.Arm, solver)
	if err != nil {
		return nil, cleanup, err
	}
	gripper, err := xsarm.NewGripper(bus, m.Arm.NumJoints())
	if err != nil {
		return nil, cleanup, err
	}
	loop, err := teleop.NewArmController(m, buf, rate, camera, arm, gripper, base)
	return loop, cleanup, err
}
