//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Renders ./model.stl, or the file named by STLPOSE_STL, at the default pose.
func (Run) Render() error {
	mg.Deps(Build.Binary)

	args := []string{}
	if stl := os.Getenv("STLPOSE_STL"); stl != "" {
		args = append(args, "-stl", stl)
	}
	if cfg := os.Getenv("STLPOSE_CONFIG"); cfg != "" {
		args = append(args, "-config", cfg)
	}
	fmt.Println("Render still...")
	if _, err := executeCmd("bin/stlpose", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
