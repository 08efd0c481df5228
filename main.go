// main.go - entrypoint: wires the supervisor, the board and the REPL
// together

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v2"
)

func main() {
	app := &cli.App{
		Name:    "jimkmd",
		Usage:   "host client for the Jimulator ARM board",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "emulator",
				Aliases: []string{"e"},
				Usage:   "path to the emulator binary",
				Value:   "jimulator",
			},
			&cli.StringFlag{
				Name:    "assembler",
				Aliases: []string{"a"},
				Usage:   "path to the assembler binary",
				Value:   "aasm",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run is the CLI action: one positional argument, the .s source (or
// .kmd listing) to load (§6.3). Usage errors exit 1.
func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		cli.ShowAppHelp(c)
		return cli.Exit("jimkmd: expected exactly one source or listing argument", 1)
	}

	sourcePath := c.Args().Get(0)
	emulatorBin := siblingBinary(c.String("emulator"))
	assemblerBin := siblingBinary(c.String("assembler"))

	supervisor := &ProcessSupervisor{}

	kmdPath := sourcePath
	if !isKMD(sourcePath) {
		kmdPath = deriveListingPath(sourcePath)
		output, err := supervisor.Compile(assemblerBin, sourcePath, kmdPath)
		if output != "" {
			fmt.Fprint(os.Stderr, output)
		}
		if err != nil {
			return cli.Exit(fmt.Sprintf("jimkmd: compile failed: %v", err), 1)
		}
	}

	board, err := supervisor.StartEmulator(emulatorBin)
	if err != nil {
		return cli.Exit(fmt.Sprintf("jimkmd: %v", err), 1)
	}
	defer supervisor.Shutdown()

	controller := NewController(board, supervisor, assemblerBin)

	listing, err := ParseKMD(kmdPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("jimkmd: %v", err), 1)
	}
	controller.listing = listing
	controller.mem = NewMemoryView(board, listing, controller.bp)
	LoadImage(board, listing)

	return runForeground(controller)
}

// isKMD reports whether path already looks like a compiled listing.
func isKMD(path string) bool {
	return len(path) > 4 && path[len(path)-4:] == ".kmd"
}

// runForeground owns the interactive session: an output-printing goroutine
// pulling terminal text from the board, an input goroutine forwarding raw
// keystrokes, and the REPL reading commands from stdin (§5). The output
// goroutine and the REPL run in one errgroup: when the REPL returns it
// cancels the shared context, which stops the output goroutine, and the
// input goroutine is stopped on return. SIGINT/SIGTERM also cancel the
// context, which stops the output goroutine but not the REPL; the function
// returns only once the REPL has returned.
func runForeground(c *Controller) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	host := NewTerminalHost(NewTerminalRelay(c.board))
	host.Start()
	defer host.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				host.PrintOutput()
			}
		}
	})

	g.Go(func() error {
		c.RunREPL(os.Stdin, os.Stdout)
		cancel()
		return nil
	})

	_ = g.Wait()
	return nil
}
