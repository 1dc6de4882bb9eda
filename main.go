/*
stlpose renders a binary STL model at a roll/pitch/yaw pose to a PNG
still and prints the pinhole intrinsics of the camera used.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/stlpose/engine"
	"github.com/spaghettifunk/stlpose/engine/core"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		core.LogError(err.Error())
		os.Exit(1)
	}
}

// run parses args, renders or inspects the configured STL and writes the
// user-facing output to stdout.
func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("stlpose", flag.ContinueOnError)
	var (
		configPath = flags.String("config", "", "TOML configuration file")
		stlPath    = flags.String("stl", "", "binary STL file to render")
		outputDir  = flags.String("out", "", "directory the image is written to")
		roll       = flags.Int("roll", 0, "rotation about X, in degrees")
		pitch      = flags.Int("pitch", 0, "rotation about Y, in degrees")
		yaw        = flags.Int("yaw", 0, "rotation about Z, in degrees")
		logLevel   = flags.String("log-level", "", "debug, info, warn or error")
		label      = flags.Bool("label", false, "draw the pose onto the image")
		watch      = flags.Bool("watch", false, "render again whenever the STL file changes")
		info       = flags.Bool("info", false, "print mesh statistics and exit")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := engine.DefaultApplicationConfig()
	if *configPath != "" {
		var err error
		if cfg, err = engine.LoadApplicationConfig(*configPath); err != nil {
			return err
		}
	}

	// only flags given on the command line override the file
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stl":
			cfg.STLPath = *stlPath
		case "out":
			cfg.OutputDir = *outputDir
		case "roll":
			cfg.Pose.Roll = *roll
		case "pitch":
			cfg.Pose.Pitch = *pitch
		case "yaw":
			cfg.Pose.Yaw = *yaw
		case "log-level":
			cfg.LogLevel = *logLevel
		case "label":
			cfg.Label = *label
		}
	})

	if cfg.LogLevel != "" {
		level, err := core.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		core.SetLogLevel(level)
	}

	e, err := engine.New(cfg)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		return err
	}
	defer e.Shutdown()
	e.SetOutput(stdout)

	if *info {
		mi, err := e.MeshInfo()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Triangles: %d\n", mi.Triangles)
		fmt.Fprintf(stdout, "Vertices: %d\n", mi.Vertices)
		fmt.Fprintf(stdout, "Bounds: (%g, %g, %g) - (%g, %g, %g)\n",
			mi.Bounds.Min.X, mi.Bounds.Min.Y, mi.Bounds.Min.Z,
			mi.Bounds.Max.X, mi.Bounds.Max.Y, mi.Bounds.Max.Z)
		fmt.Fprintf(stdout, "Center: (%g, %g, %g)\n", mi.Center.X, mi.Center.Y, mi.Center.Z)
		fmt.Fprintf(stdout, "Surface area: %g\n", mi.SurfaceArea)
		fmt.Fprintf(stdout, "Degenerate triangles: %d\n", mi.Degenerate)
		return nil
	}

	if !*watch {
		path, err := e.RenderOnce()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Generated image %s\n", path)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		cancel()
	}()

	core.LogInfo("watching %s, press Ctrl+C to stop", cfg.STLPath)
	return e.Watch(ctx, func(path string, err error) {
		if err != nil {
			core.LogError(err.Error())
			return
		}
		fmt.Fprintf(stdout, "Generated image %s\n", path)
	})
}
