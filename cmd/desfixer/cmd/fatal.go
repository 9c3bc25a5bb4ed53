package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/oneconcern/desfixer/pkg/decrypt"
	"github.com/oneconcern/desfixer/pkg/errors"
	"github.com/oneconcern/desfixer/pkg/fixer/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// infoLogger wraps informative messages to os.Stdout without cluttering expected output in tests.
	// To be used instead on fmt.Printf(os.Stdout, ...)
	infoLogger = log.New(os.Stdout, "", 0)
	logStdOut  = fmt.Printf

	// consoleOut receives the console side of the combined logger, and the prompts
	consoleOut io.Writer = os.Stdout

	// appFs is the file system the commands work on
	appFs = afero.NewOsFs()
)

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
	} else {
		logFatalf("%v", fmt.Errorf(msg+": %w", err))
	}
}

func wrapFatalWithCodef(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	osExit(code)
}

// fail reports an error which stops a conversion, waits for the user, then exits.
//
// The log file is flushed and SIGINT handling released first, since exiting skips deferred calls.
func fail(in *cliOptionInputs, logger *zap.Logger, err error) {
	logger.Error(failureMessage(in, err), zap.Error(err))
	in.closeLogger()
	in.releaseSignals()
	pause()
	osExit(1)
}

// failureMessage is the headline logged when a conversion stops
func failureMessage(in *cliOptionInputs, err error) string {
	switch {
	case errors.Is(err, status.ErrToolNotFound):
		tool := decrypt.NewTool(in.params.paths.Tool).Path()
		return fmt.Sprintf("Can't find %s. Execution can't continue.", filepath.Base(tool))
	case errors.Is(err, status.ErrNoGameFound):
		return "No known PSN DeS game files detected"
	default:
		return "Execution can't continue."
	}
}
