package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/GoSim-25-26J-441/soapgen/config"
	"github.com/GoSim-25-26J-441/soapgen/internal/generation"
	"github.com/GoSim-25-26J-441/soapgen/internal/logging"
	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.SetLevel(cfg.App.LogLevel)

	var (
		wsdlFlag        = flag.String("wsdl", "", "Path to the WSDL file to upload")
		textFlag        = flag.String("text", "", "Free-text test requirements")
		outFlag         = flag.String("out", ".", "Directory to write soapui-project.xml into")
		serviceFlag     = flag.String("service", cfg.Generator.URL, "Generation service base URL")
		timeoutFlag     = flag.Duration("timeout", cfg.Generator.Timeout, "Generation timeout")
		interactiveFlag = flag.Bool("interactive", false, "Prompt for missing inputs")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeoutFlag+5*time.Second)
	defer cancel()

	r := &runner{
		gen:    generation.NewClient(*serviceFlag, generation.WithTimeout(*timeoutFlag)),
		prompt: surveyPrompter{},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	err = r.Run(ctx, runOptions{
		WSDLPath:    *wsdlFlag,
		Text:        *textFlag,
		OutDir:      *outFlag,
		Interactive: *interactiveFlag,
	})
	switch {
	case err == nil:
	case errors.Is(err, errAborted):
		os.Exit(130)
	case errors.Is(err, submission.ErrMissingFile):
		os.Exit(2)
	default:
		log.Printf("soapgen: %v", err)
		os.Exit(1)
	}
}
