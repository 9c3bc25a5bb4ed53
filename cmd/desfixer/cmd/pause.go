package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// used to patch over the interactive prompt during test
	stdin         io.Reader = os.Stdin
	isInteractive           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

	promptColor = color.New(color.FgYellow)
	doneColor   = color.New(color.FgGreen, color.Bold)
)

// pause waits for the user to press Enter, unless disabled or not attached to a terminal
func pause() {
	if desfixerFlags.root.noPause || !isInteractive() {
		return
	}
	_, _ = promptColor.Fprint(consoleOut, "Press Enter to continue...")
	_, _ = bufio.NewReader(stdin).ReadString('\n')
}
