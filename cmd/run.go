// File: cmd/run.go
// Description: The `run` command. Wires the device surface, dispatcher,
// confirmation gate, model transport, and agent together, then drives one
// task (or an interactive task loop) to termination.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Singularity-tian/computer-use-experiment/internal/agent"
	"github.com/Singularity-tian/computer-use-experiment/internal/computer"
	"github.com/Singularity-tian/computer-use-experiment/internal/config"
	"github.com/Singularity-tian/computer-use-experiment/internal/device"
	"github.com/Singularity-tian/computer-use-experiment/internal/gate"
	"github.com/Singularity-tian/computer-use-experiment/internal/observability"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run a task against the controlled device, or start interactive mode",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their corresponding Viper keys so command-line
			// flags correctly override config file and environment values.
			if err := viper.BindPFlag("agent.max_iterations", cmd.Flags().Lookup("max-iterations")); err != nil {
				return err
			}
			if err := viper.BindPFlag("model.name", cmd.Flags().Lookup("model")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.start_url", cmd.Flags().Lookup("url")); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
			}
			if noConfirm, _ := cmd.Flags().GetBool("no-confirm"); noConfirm {
				cfg.Agent.ConfirmActions = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sessionID := uuid.New().String()
			logger = logger.With(zap.String("sessionID", sessionID))
			logger.Info("Starting device session",
				zap.String("model", cfg.Model.Name),
				zap.Int("display_width", cfg.Display.Width),
				zap.Int("display_height", cfg.Display.Height),
				zap.Int("max_iterations", cfg.Agent.MaxIterations),
				zap.Bool("confirm_actions", cfg.Agent.ConfirmActions),
			)

			a, cleanup, err := initializeAgent(ctx, &cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize agent: %w", err)
			}
			defer cleanup()

			interactive, _ := cmd.Flags().GetBool("interactive")
			if interactive || len(args) == 0 {
				return interactiveLoop(ctx, a, logger)
			}
			return runTask(ctx, a, args[0])
		},
	}

	runCmd.Flags().IntP("max-iterations", "m", 0, "Maximum number of agent iterations. (Overrides config/env)")
	runCmd.Flags().String("model", "", "Model to use. (Overrides config/env)")
	runCmd.Flags().Bool("no-confirm", false, "Skip action confirmations (faster but less safe).")
	runCmd.Flags().BoolP("interactive", "i", false, "Run in interactive mode.")
	runCmd.Flags().Bool("headless", false, "Run the browser surface headless.")
	runCmd.Flags().String("url", "", "Page the device surface starts on.")

	return runCmd
}

// initializeAgent builds the full component stack. The returned cleanup
// tears down the device session.
func initializeAgent(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*agent.Agent, func(), error) {
	surface, err := device.NewCDPSurface(ctx, device.Config{
		Width:          cfg.Display.Width,
		Height:         cfg.Display.Height,
		ActionPause:    cfg.Browser.ActionPause,
		CaptureTimeout: cfg.Display.CaptureTimeout,
		CaptureQuality: cfg.Display.CaptureQuality,
		StartURL:       cfg.Browser.StartURL,
		Headless:       cfg.Browser.Headless,
		MacKeymap:      cfg.Browser.MacKeymap,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	dispatcher, err := computer.NewDispatcher(surface, cfg.Display.Width, cfg.Display.Height, logger)
	if err != nil {
		surface.Close()
		return nil, nil, err
	}

	var g gate.Gate = gate.AllowAll{}
	if cfg.Agent.ConfirmActions {
		g = gate.NewTerminalGate(os.Stdin, os.Stdout)
	}

	transport, err := agent.NewAnthropicTransport(cfg.Model, cfg.Display.Width, cfg.Display.Height, logger)
	if err != nil {
		surface.Close()
		return nil, nil, err
	}

	a, err := agent.New(transport, dispatcher, g, cfg.Agent.MaxIterations, logger)
	if err != nil {
		surface.Close()
		return nil, nil, err
	}
	return a, surface.Close, nil
}

// runTask drives a single task to termination and prints the result.
func runTask(ctx context.Context, a *agent.Agent, task string) error {
	result, err := a.Run(ctx, task)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("run aborted by user signal")
		}
		return err
	}

	fmt.Printf("\n[%s] %s\n", result.Termination, result.Text)
	return nil
}

// interactiveLoop repeatedly reads tasks from stdin and runs each one.
func interactiveLoop(ctx context.Context, a *agent.Agent, logger *zap.Logger) error {
	fmt.Println("\n=== Computer Use - Interactive Mode ===")
	fmt.Println("Enter tasks for the model to perform. Type 'quit' or 'exit' to stop.")

	reader := bufio.NewReader(os.Stdin)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Print("\nTask: ")
		line, err := reader.ReadString('\n')
		task := strings.TrimSpace(line)
		if task == "quit" || task == "exit" {
			fmt.Println("Goodbye!")
			return nil
		}
		if task != "" {
			if runErr := runTask(ctx, a, task); runErr != nil {
				// Transport failures end one task, not the session.
				logger.Error("Task failed", zap.Error(runErr))
			}
		}
		if err != nil {
			fmt.Println("\nGoodbye!")
			return nil
		}
	}
}
