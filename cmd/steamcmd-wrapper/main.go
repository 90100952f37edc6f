package main

import "github.com/benfiola/steamcmd-wrapper/pkg/helper"

// Version is set via ldflags during build
var Version = "dev"

func main() {
	(&helper.Helper{Version: Version}).Run()
}
