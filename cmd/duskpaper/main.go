// duskpaper - a day and night aware wallpaper changer
//
// duskpaper works out sunrise and sunset for your location and sets a
// wallpaper from your collection that suits the time of day.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	_ "time/tzdata"

	"github.com/jmylchreest/duskpaper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
