package main

import (
	"bufio"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/korcankaraokcu/pince/codec"
	"github.com/korcankaraokcu/pince/domain"
	"github.com/korcankaraokcu/pince/inject"
	"github.com/korcankaraokcu/pince/process"
	"github.com/korcankaraokcu/pince/scriptbank"
	"github.com/korcankaraokcu/pince/scriptbank/commands"
	"github.com/korcankaraokcu/pince/state"
	"github.com/korcankaraokcu/pince/symbol"
	"github.com/korcankaraokcu/pince/sysio"
	"github.com/korcankaraokcu/pince/watcher"

	systemd "github.com/coreos/go-systemd/daemon"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	runDir  string = "/run/pince-dcl"
	pidFile string = runDir + "/pince-dcl.pid"
	usage   string = `pince-dcl debugger control layer

pince-dcl attaches to a running process via gdb, exposing typed
address-table reads/writes, registers, stack inspection, disassembly
and library injection over a local console.
`
)

// Globals populated at build time.
var (
	version  string
	commitId string
	builtAt  string
	builtBy  string
)

// exitHandler mirrors the teacher's signal-driven shutdown: log the signal,
// optionally dump goroutine stacks, detach the session, stop the watchers,
// stop profiling, and exit.
func exitHandler(
	signalChan chan os.Signal,
	sessionService domain.SessionServiceIface,
	watcherService domain.WatcherServiceIface,
	prof interface{ Stop() }) {

	var printStack = false

	s := <-signalChan

	logrus.Warnf("pince-dcl caught signal: %s", s)
	logrus.Info("Stopping (gracefully) ...")

	systemd.SdNotify(false, systemd.SdNotifyStopping)

	switch s {
	case syscall.SIGABRT, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGSEGV:
		printStack = true
	}

	if printStack {
		stacktrace := make([]byte, 32768)
		length := runtime.Stack(stacktrace, true)
		logrus.Warnf("\n\n%s\n", string(stacktrace[:length]))
	}

	if err := sessionService.Detach(); err != nil {
		logrus.Warnf("detach on shutdown: %v", err)
	}
	watcherService.StopAll()

	if prof != nil {
		prof.Stop()
	}

	if err := destroyPidFile(); err != nil {
		logrus.Warnf("failed to destroy pince-dcl pid file: %v", err)
	}

	logrus.Info("Exiting ...")
	os.Exit(0)
}

// runProfiler mirrors the teacher's mutually-exclusive cpu/memory profiler
// setup, with NoShutdownHook so our own signal handler stays in charge.
func runProfiler(ctx *cli.Context) (interface{ Stop() }, error) {
	var prof interface{ Stop() }

	cpuProfOn := ctx.Bool("cpu-profiling")
	memProfOn := ctx.Bool("memory-profiling")

	if cpuProfOn && memProfOn {
		return nil, fmt.Errorf("unsupported parameter combination: cpu and memory profiling")
	}
	if !(cpuProfOn || memProfOn) {
		return nil, nil
	}

	if cpuProfOn {
		prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	if memProfOn {
		prof = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}

	return prof, nil
}

func setupRunDir() error {
	if err := os.MkdirAll(runDir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %s", runDir, err)
	}
	return nil
}

// createPidFile and destroyPidFile stand in for the teacher's pid-file
// helper from sysbox-libs/utils, which this module does not depend on;
// the logic is the same two-line open-or-truncate / remove pattern.
func createPidFile() error {
	return os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func destroyPidFile() error {
	err := os.Remove(pidFile)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// consoleMIUnsupported is the canned response for console lines with a
// leading "-", which are rejected without forwarding.
const consoleMIUnsupported = "MI not supported"

// runConsole reads lines from stdin and forwards them to the debugger
// through the Command Gateway, implementing the console-panel contract of
// spec.md §6: "/clear" is swallowed locally, a leading "-" is rejected as
// MI syntax, "quit"/"q" is soft-rejected (refusing to kill the debugger
// out from under the session), and slash-prefixed names dispatch to the
// Custom Script Bank, Expression & Symbol Services, or Injection Service
// instead of the raw gateway.
func runConsole(
	sess domain.SessionIface,
	bank domain.ScriptBankServiceIface,
	sym domain.SymbolServiceIface,
	cdc domain.CodecServiceIface,
	inj domain.InjectServiceIface) {

	gw := sess.Gateway()
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/clear":
			continue

		case strings.HasPrefix(line, "-"):
			fmt.Println(consoleMIUnsupported)
			continue

		case line == "quit" || line == "q":
			fmt.Println("refusing to quit the debugger directly; send SIGTERM to detach")
			continue

		case strings.HasPrefix(line, "/"):
			dispatchConsoleCommand(line, gw, bank, sym, cdc, inj)
			continue
		}

		resp, ok := gw.SendCommand(line, domain.CommandOptions{CLIOutput: true})
		if !ok {
			fmt.Println("Inferior is running")
			continue
		}
		fmt.Println(resp.Text)
	}
}

// dispatchConsoleCommand handles the "/name arg..." console shorthands
// that exercise the Custom Script Bank (C6), Expression & Symbol Services
// (C7), Value Codec (C10), and Injection Service (C8) directly, rather
// than routing everything through the raw gdb CLI.
func dispatchConsoleCommand(
	line string,
	gw domain.GatewayServiceIface,
	bank domain.ScriptBankServiceIface,
	sym domain.SymbolServiceIface,
	cdc domain.CodecServiceIface,
	inj domain.InjectServiceIface) {

	fields := strings.Fields(line)
	name, args := fields[0][1:], fields[1:]

	switch name {
	case "regs", "fregs", "stacktrace", "stackinfo", "frames":
		scriptName := map[string]string{
			"regs":       "pince-read-registers",
			"fregs":      "pince-read-float-registers",
			"stacktrace": "pince-get-stack-trace-info",
			"stackinfo":  "pince-get-stack-info",
			"frames":     "pince-get-frame-return-addresses",
		}[name]

		script, ok := bank.Lookup(scriptName)
		if !ok {
			fmt.Printf("unknown script %q\n", scriptName)
			return
		}
		result, err := script.Invoke(domain.ScriptRequest{Gateway: gw})
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("%+v\n", result)

	case "sym":
		if len(args) != 1 {
			fmt.Println("usage: /sym <address-expr>")
			return
		}
		out, ok := sym.AddressToSymbol(args[0], true, true)
		if !ok {
			fmt.Println("??")
			return
		}
		fmt.Println(out)

	case "addr":
		if len(args) != 1 {
			fmt.Println("usage: /addr <symbol-expr>")
			return
		}
		out, ok := sym.SymbolToAddress(args[0], true)
		if !ok {
			fmt.Println("??")
			return
		}
		fmt.Println(out)

	case "inject":
		if len(args) != 1 {
			fmt.Println("usage: /inject <path-to-.so>")
			return
		}
		ok, err := inj.Inject(args[0])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Println(ok)

	case "encode":
		if len(args) != 2 {
			fmt.Println("usage: /encode <dword|qword|float|double> <value>")
			return
		}
		kind, ok := parseKind(args[0])
		if !ok {
			fmt.Println("unknown kind")
			return
		}
		raw, ok := cdc.Decode(args[1], domain.AddressEntry{Kind: kind})
		if !ok {
			fmt.Println("Can't parse the input")
			return
		}
		fmt.Printf("% x\n", raw)

	default:
		fmt.Printf("unknown console command %q\n", name)
	}
}

func parseKind(s string) (domain.ValueKind, bool) {
	switch s {
	case "byte":
		return domain.KindByte, true
	case "word":
		return domain.KindWord, true
	case "dword":
		return domain.KindDWord, true
	case "qword":
		return domain.KindQWord, true
	case "float":
		return domain.KindFloat, true
	case "double":
		return domain.KindDouble, true
	case "string":
		return domain.KindString, true
	case "bytearray":
		return domain.KindByteArray, true
	default:
		return 0, false
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "pince-dcl"
	app.Usage = usage
	app.Version = version

	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "pid",
			Usage: "pid of the target process to attach to",
		},
		cli.StringFlag{
			Name:  "workspace-root",
			Value: "/tmp/pince-dcl",
			Usage: "parent directory for the per-pid IPC workspace",
		},
		cli.StringFlag{
			Name:  "debugger",
			Value: "gdb",
			Usage: "path to the debugger binary",
		},
		cli.StringFlag{
			Name:  "debugger-args",
			Value: "--interpreter=mi",
			Usage: "space-separated extra arguments passed to the debugger",
		},
		cli.DurationFlag{
			Name:  "refresh-interval",
			Value: 500 * time.Millisecond,
			Usage: "refresher tick period; values below 100ms are allowed but logged",
		},
		cli.BoolTFlag{
			Name:  "auto-update",
			Usage: "whether the refresher fires while the inferior is stopped (default: \"true\")",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "log file path or empty string for stderr output",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "log categories to include (debug, info, warning, error, fatal)",
		},
		cli.StringFlag{
			Name:  "log-format",
			Value: "text",
			Usage: "log format; must be json or text",
		},
		cli.BoolFlag{
			Name:   "cpu-profiling",
			Usage:  "enable cpu-profiling data collection",
			Hidden: true,
		},
		cli.BoolFlag{
			Name:   "memory-profiling",
			Usage:  "enable memory-profiling data collection",
			Hidden: true,
		},
	}

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("pince-dcl\n\tversion: \t%s\n\tcommit: \t%s\n\tbuilt at: \t%s\n\tbuilt by: \t%s\n",
			c.App.Version, commitId, builtAt, builtBy)
	}

	app.Before = func(ctx *cli.Context) error {
		rand.Seed(time.Now().UnixNano())

		if path := ctx.GlobalString("log"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_SYNC, 0666)
			if err != nil {
				logrus.Fatalf("Error opening log file %v: %v. Exiting ...", path, err)
				return err
			}
			logrus.SetOutput(f)
			log.SetOutput(f)
		} else {
			logrus.SetOutput(os.Stderr)
			log.SetOutput(os.Stderr)
		}

		if ctx.GlobalString("log-format") == "json" {
			logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
		} else {
			logrus.SetFormatter(&logrus.TextFormatter{TimestampFormat: "2006-01-02 15:04:05", FullTimestamp: true})
		}

		switch logLevel := ctx.GlobalString("log-level"); logLevel {
		case "debug":
			logrus.SetLevel(logrus.DebugLevel)
		case "info":
			logrus.SetLevel(logrus.InfoLevel)
		case "warning":
			logrus.SetLevel(logrus.WarnLevel)
		case "error":
			logrus.SetLevel(logrus.ErrorLevel)
		case "fatal":
			logrus.SetLevel(logrus.FatalLevel)
		default:
			logrus.Fatalf("log-level option '%v' not recognized. Exiting ...", logLevel)
		}

		return nil
	}

	app.Action = func(ctx *cli.Context) error {
		logrus.Info("Initiating pince-dcl ...")

		pid := ctx.Int("pid")
		if pid <= 0 {
			return fmt.Errorf("--pid is required")
		}

		if err := setupRunDir(); err != nil {
			return err
		}

		probeService := process.NewProcessProbeService()
		ioService := sysio.NewIOService(domain.IOOsFileService)
		codecService := codec.New()

		scriptBank := scriptbank.New()
		for _, script := range commands.All(codecService) {
			if err := scriptBank.Register(script); err != nil {
				return fmt.Errorf("registering script bank: %w", err)
			}
		}

		sessionService := state.New(
			probeService,
			ioService,
			ctx.GlobalString("workspace-root"),
			ctx.GlobalString("debugger"),
			strings.Fields(ctx.GlobalString("debugger-args")),
		)

		sess, err := sessionService.Attach(uint32(pid))
		if err != nil {
			return fmt.Errorf("attach to pid %d: %w", pid, err)
		}

		symbolService := symbol.New(sess.Gateway())
		injectService := inject.New(sess.Gateway())

		watcherService := watcher.New(probeService)
		watcherService.Setup(sess)

		watcherService.StartExitWatcher(func() {
			logrus.Warnf("pid %d is no longer valid; treating as target exit", pid)
		})
		watcherService.StartStatusWatcher(
			func() { logrus.Debug("inferior stopped") },
			func() { logrus.Debug("inferior running") },
		)
		watcherService.StartAsyncOutputWatcher(func(text string) {
			logrus.Debugf("async: %s", strings.TrimSpace(text))
		})

		refreshInterval := ctx.Duration("refresh-interval")
		autoUpdate := ctx.BoolT("auto-update")
		watcherService.StartRefresher(
			func() time.Duration { return refreshInterval },
			func() bool { return autoUpdate },
			func() { logrus.Debug("refresh tick") },
		)

		prof, err := runProfiler(ctx)
		if err != nil {
			logrus.Fatal(err)
		}

		exitChan := make(chan os.Signal, 1)
		signal.Notify(
			exitChan,
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGSEGV,
			syscall.SIGQUIT,
		)
		go exitHandler(exitChan, sessionService, watcherService, prof)

		systemd.SdNotify(false, systemd.SdNotifyReady)

		if err := createPidFile(); err != nil {
			return fmt.Errorf("failed to create pince-dcl.pid file: %s", err)
		}

		logrus.Infof("Attached to pid %d (%s). Ready ...", pid, sess.Arch())

		runConsole(sess, scriptBank, symbolService, codecService, injectService)

		logrus.Info("console closed, detaching ...")
		if err := sessionService.Detach(); err != nil {
			logrus.Warnf("detach: %v", err)
		}
		watcherService.StopAll()

		if err := destroyPidFile(); err != nil {
			logrus.Warnf("failed to destroy pince-dcl pid file: %v", err)
		}
		logrus.Info("Done.")

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
