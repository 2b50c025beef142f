// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// retrobot runs the robot control loop on a host with an I²C bus.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/retrobot/config"
	"github.com/jessevdk/go-flags"
)

// Options are the command line options.
type Options struct {
	Config     string `short:"c" long:"config" description:"YAML configuration file" env:"RETROBOT_CONFIG"`
	Bus        string `short:"b" long:"bus" description:"I²C bus name, overrides the configuration"`
	Verbose    bool   `short:"v" long:"verbose" description:"Log state transitions"`
	DumpConfig bool   `long:"dump-config" description:"Print the effective configuration and exit"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "retrobot drives the robot: it avoids obstacles with the sonar and dances every now and then."
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if err := mainImpl(&opts); err != nil {
		log.Fatal(err)
	}
}

func mainImpl(opts *Options) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return err
	}
	if opts.Bus != "" {
		cfg.Bus = opts.Bus
	}
	if opts.Verbose {
		cfg.Verbose = true
	}
	if opts.DumpConfig {
		fmt.Print(cfg.String())
		return nil
	}

	r, err := open(&cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := r.clock.Start(ctx); err != nil {
		return err
	}
	err = r.engine.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Printf("retrobot: stopped (%s)", r.engine.State())
		return nil
	}
	return err
}
