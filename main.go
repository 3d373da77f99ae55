// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Frigostat - walk-in refrigeration controller simulator and SCK protocol
// tools.

package main

import (
	"os"

	"github.com/Thermoquad/frigostat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
