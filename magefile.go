//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "bin/payrecon"
	wireDir = "./internal/app"
)

// Default target when running mage without arguments.
var Default = Build

// Build builds the server binary.
func Build() error {
	mg.Deps(Wire)
	fmt.Println("Building", binary)
	return sh.Run("go", "build", "-o", binary, "./cmd/server")
}

// Wire regenerates internal/app/wire_gen.go.
func Wire() error {
	fmt.Println("Running wire...")
	return sh.Run("wire", "gen", wireDir)
}

// Test runs unit tests.
func Test() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// TestIntegration runs the Postgres and Redis container tests.
// Requires a reachable Docker daemon.
func TestIntegration() error {
	fmt.Println("Running integration tests...")
	return sh.RunV("go", "test", "-race", "-tags=integration", "./internal/adapter/outbound/...")
}

// Cover writes coverage.out for the unit tests.
func Cover() error {
	fmt.Println("Running tests with coverage...")
	return sh.RunV("go", "test", "-coverprofile=coverage.out", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	fmt.Println("Running linter...")
	return sh.RunV("golangci-lint", "run", "./...")
}

// Vet runs go vet, including integration-tagged files.
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.RunV("go", "vet", "-tags=integration", "./...")
}

// Tidy runs go mod tidy.
func Tidy() error {
	return sh.Run("go", "mod", "tidy")
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	return sh.Rm("coverage.out")
}

// CI runs the checks used before merging.
func CI() {
	mg.SerialDeps(Tidy, Wire, Vet, Test)
}

// Dev builds and runs the server against configs/config.yaml.
func Dev() error {
	mg.Deps(Build)
	cmd := exec.Command("./"+binary, "-config", "configs/config.yaml")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Install installs the code generation and lint tools.
func Install() error {
	for _, tool := range []string{
		"github.com/google/wire/cmd/wire@v0.7.0",
		"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	} {
		fmt.Println("Installing", tool)
		if err := sh.Run("go", "install", tool); err != nil {
			return fmt.Errorf("install %s: %w", tool, err)
		}
	}
	return nil
}
