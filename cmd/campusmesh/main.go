// Command campusmesh runs the university support system: a triage agent that
// hands user queries off to specialist agents backed by the campus database.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/campusmesh/campusmesh"
	"github.com/campusmesh/campusmesh/config"
	"github.com/campusmesh/campusmesh/core"
	"github.com/campusmesh/campusmesh/executor"
	anthropicexec "github.com/campusmesh/campusmesh/executor/anthropic"
	openaiexec "github.com/campusmesh/campusmesh/executor/openai"
	"github.com/campusmesh/campusmesh/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	query := flag.String("query", "", "run a single query instead of the interactive prompt")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, os.Stderr)

	exec, err := buildExecutor(cfg)
	if err != nil {
		log.Fatalf("build executor: %v", err)
	}

	mesh, err := campusmesh.New(cfg.Storage.Path, exec, func(o *campusmesh.Options) {
		o.InstructionsDir = cfg.Storage.InstructionsDir
		o.MaxTurns = cfg.Runner.MaxTurns
		o.Logger = logger
	})
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer mesh.Close()

	if *query != "" {
		runSession(mesh, *query)
		return
	}

	fmt.Println("University Support System. Ask about courses or schedules; empty line exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return
		}
		runSession(mesh, line)
	}
}

func buildExecutor(cfg *config.Config) (executor.Executor, error) {
	switch cfg.Executor.Provider {
	case "openai":
		return openaiexec.NewExecutor(func(o *openaiexec.Options) {
			if cfg.Executor.Model != "" {
				o.Model = cfg.Executor.Model
			}
		}), nil
	case "anthropic":
		return anthropicexec.NewExecutor(func(o *anthropicexec.Options) {
			if cfg.Executor.Model != "" {
				o.Model = anthropic.Model(cfg.Executor.Model)
			}
			o.APIKey = cfg.Executor.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown executor provider %q", core.ErrConfiguration, cfg.Executor.Provider)
	}
}

func runSession(mesh *campusmesh.CampusMesh, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	out := mesh.Ask(ctx, query)
	if out.Status == core.StatusFailure {
		log.Printf("session failed: %v", out.Err)
		return
	}

	for _, msg := range out.Transcript {
		if msg.Role == core.RoleAgent {
			fmt.Printf("\n[%s]\n%s\n", msg.Author, msg.Content)
		}
	}
	fmt.Println()
}
