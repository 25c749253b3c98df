// Command ctest drives controlled concurrency exploration over the
// scenario bodies bundled with this module.
//
// Usage:
//
//	ctest run deadlock --seed 11
//	ctest explore bounded-semaphore --iterations 500 --strategy pct --bound 3
//	ctest explore bounded-semaphore --iterations 500 --stats
//
// This is a thin demo/exploration driver: the scheduling kernel itself is
// an embedded library, not a standalone tool that instruments arbitrary
// user programs.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
