package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/daemon"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch the statements directory and serve reports over HTTP/SSE",
	Long: `Runs a background service that re-reads the statements directory on an
interval and serves the current month's report over HTTP. Changes to the
month's totals, anomalies or projection are published as server-sent events.

Endpoints: /healthz, /v1/status, /v1/report?month=YYYY-MM|all, /v1/events,
/v1/stream.`,
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultPID := filepath.Join(pipeline.CacheDir(), "cashburnd.pid")
	defaultLog := filepath.Join(pipeline.CacheDir(), "cashburnd.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config, 127.0.0.1:8788)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config, 30s)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// resolveDaemonDefaults fills --addr and --interval from the config file
// when they were not given on the command line.
func resolveDaemonDefaults() {
	if flagDaemonAddr == "" {
		flagDaemonAddr = appCfg.Daemon.Addr
	}
	if flagDaemonAddr == "" {
		flagDaemonAddr = "127.0.0.1:8788"
	}
	if flagDaemonInterval <= 0 && appCfg.Daemon.IntervalSec > 0 {
		flagDaemonInterval = time.Duration(appCfg.Daemon.IntervalSec) * time.Second
	}
	if flagDaemonInterval <= 0 {
		flagDaemonInterval = 30 * time.Second
	}
}

func runDaemon(_ *cobra.Command, _ []string) error {
	resolveDaemonDefaults()
	if err := ensureDaemonNotRunning(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if flagDaemonDetach {
		return startDaemonDetached()
	}
	return runDaemonForeground()
}

// startDaemonDetached re-runs the same command line without --detach,
// writing its output to the log file.
func startDaemonDetached() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	var args []string
	for _, a := range os.Args[1:] {
		if a != "--detach" && !strings.HasPrefix(a, "--detach=") {
			args = append(args, a)
		}
	}

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d) on http://%s\n", child.Process.Pid, flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	pidLine := fmt.Sprintf("%d %s\n", os.Getpid(), flagDaemonAddr)
	if err := os.WriteFile(flagDaemonPIDFile, []byte(pidLine), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer func() { _ = os.Remove(flagDaemonPIDFile) }()

	cfg := daemon.Config{
		DataDir:      flagDataDir,
		Rules:        appCfg.Rules(),
		Balance:      flagBalance,
		UseCache:     !flagNoCache,
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
		Logger:       appLog,
	}
	if flagToday != "" {
		today, err := referenceDate()
		if err != nil {
			return err
		}
		cfg.Now = func() time.Time { return today }
	}
	svc := daemon.New(cfg)

	fmt.Printf("  cashburn daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling every %s from %s\n", flagDaemonInterval, flagDataDir)
	fmt.Printf("  Stop with: cashburn daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	resolveDaemonDefaults()
	pid, addr, err := readPIDFile()
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}
	if !processAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}
	if addr == "" {
		addr = flagDaemonAddr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  Files: %d (%d malformed records)\n", st.Files, st.ParseErrors)
	sum := st.Summary
	fmt.Printf("  Month: %s, %s transactions\n", sum.Month, cli.FormatNumber(int64(sum.Transactions)))
	fmt.Printf("  Income: %s  Expenses: %s  Net: %s\n",
		cli.FormatMoney(sum.Income), cli.FormatMoney(sum.Expenses), cli.FormatSignedMoney(sum.Net))
	fmt.Printf("  Anomalies: %d  Alerts: %d\n", sum.Anomalies, sum.Alerts)
	fmt.Printf("  Projected month-end: %s (%s confidence)\n", cli.FormatMoney(sum.ProjectedBalance), sum.Confidence)
	fmt.Printf("  Events: %d buffered, %d subscribers\n", st.EventCount, st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, _, err := readPIDFile()
	if err != nil {
		return errors.New("daemon is not running")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	for deadline := time.Now().Add(8 * time.Second); time.Now().Before(deadline); {
		if !processAlive(pid) {
			_ = os.Remove(flagDaemonPIDFile)
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func ensureDaemonNotRunning() error {
	pid, _, err := readPIDFile()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && processAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	_ = os.Remove(flagDaemonPIDFile)
	return nil
}

// readPIDFile parses the "<pid> <addr>" line the foreground daemon writes.
func readPIDFile() (int, string, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(flagDaemonPIDFile)
	if err != nil {
		return 0, "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("empty pid file %s", flagDaemonPIDFile)
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return 0, "", fmt.Errorf("invalid pid in %s", flagDaemonPIDFile)
	}
	addr := ""
	if len(fields) > 1 {
		addr = fields[1]
	}
	return pid, addr, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
