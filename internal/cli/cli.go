package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/serialgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("serialgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
serialgraph - Conflict-serializability analyzer for transaction schedules.

Usage:
  serialgraph [options] [SCHEDULE_PATH]

Arguments:
  SCHEDULE_PATH
    Path to a schedule file (.xlsx, .xlsm, .csv, .tsv, .hcl, .yaml, .yml)
    or a directory searched recursively for such files.

Exit codes:
  0  success
  1  a schedule could not be loaded or analyzed
  2  invalid arguments
  3  -strict was given and a schedule is not conflict serializable

Options:
`)
		flagSet.PrintDefaults()
	}

	inputFlag := flagSet.String("input", "", "Path to the schedule file or directory.")
	iFlag := flagSet.String("i", "", "Path to the schedule file or directory (shorthand).")
	sheetFlag := flagSet.String("sheet", "", "Worksheet to read from spreadsheet inputs. Defaults to the first sheet.")
	formatFlag := flagSet.String("format", "text", "Report format. Options: 'text' or 'json'.")
	graphOutFlag := flagSet.String("graph-out", "", "Write the precedence graph as Graphviz DOT to this path.")
	cyclesFlag := flagSet.Int("cycles", 0, "List up to N simple cycles of a cyclic precedence graph. 0 is disabled.")
	strictFlag := flagSet.Bool("strict", false, "Exit with code 3 if any schedule is not conflict serializable.")
	watchFlag := flagSet.Bool("watch", false, "Keep running and re-analyze schedules when they change.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server in watch mode. 0 is disabled.")
	publishURLFlag := flagSet.String("publish-url", "", "socket.io endpoint to publish reports to, e.g. http://localhost:3000/socket.io/.")
	publishNSFlag := flagSet.String("publish-namespace", "/", "socket.io namespace for published reports.")
	otlpFlag := flagSet.String("otlp-endpoint", "", "OTLP gRPC endpoint for trace export, e.g. localhost:4317. Empty disables tracing.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *inputFlag != "" {
		path = *inputFlag
	} else if *iFlag != "" {
		path = *iFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Schedule path determined.", "path", path)

	if path == "" {
		slog.Debug("No schedule path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected a single schedule path, got %d arguments", flagSet.NArg())}
	}

	config, err := app.NewConfig(app.Config{
		InputPath:        path,
		Sheet:            *sheetFlag,
		Format:           strings.ToLower(*formatFlag),
		GraphOut:         *graphOutFlag,
		CycleLimit:       *cyclesFlag,
		Strict:           *strictFlag,
		Watch:            *watchFlag,
		HealthcheckPort:  *healthPortFlag,
		PublishURL:       *publishURLFlag,
		PublishNamespace: *publishNSFlag,
		OTLPEndpoint:     *otlpFlag,
		LogFormat:        strings.ToLower(*logFormatFlag),
		LogLevel:         strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
