// Package main provides the wpgrad CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("wpgrad %s\n", version)
	case "fit":
		runFit(os.Args[2:])
	case "check":
		runCheck(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("wpgrad - gradient estimation by weight perturbation")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  fit        Fit a linear regressor on synthetic data")
	fmt.Println("  check      Compare averaged estimates with a finite-difference gradient")
	fmt.Println("")
	fmt.Println("Run 'wpgrad <command> -h' for command flags.")
}
