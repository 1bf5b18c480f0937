// Command voices-server serves the custom voice API.
//
// Configuration comes from CONFIG_PATH (default ./config.yaml) and the
// environment; run with -env to list every variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/instant-voices/internal/app"
	"github.com/heartmarshall/instant-voices/internal/config"
)

func main() {
	envHelp := flag.Bool("env", false, "print the environment variables and exit")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	switch {
	case *envHelp:
		if err := config.Usage(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "voices-server: %v\n", err)
			os.Exit(1)
		}
		return
	case *version:
		fmt.Println(app.Name, app.BuildVersion())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "voices-server: %v\n", err)
		os.Exit(1)
	}
}
