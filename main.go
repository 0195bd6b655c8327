// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/automaxprocs/maxprocs"
	"gopkg.in/natefinch/lumberjack.v2"

	"seedling/internal/cleanup"
	"seedling/internal/config"
	"seedling/internal/create"
	"seedling/internal/dispatch"
	"seedling/internal/pkg/random"
	"seedling/internal/pkg/sys"
	"seedling/internal/resolve"
	"seedling/internal/selection"
	"seedling/internal/version"
	"seedling/internal/web"
)

func main() {
	setupFlagsAndEnvParser()

	if viper.GetBool("version") {
		fmt.Println(version.Print())
		return
	}

	sessionPath := mustGetSessionPath()

	if viper.GetBool("clean") {
		setupLogger("", false)
		runCleanup(sessionPath)
		return
	}

	createSessionDirectory(sessionPath)

	cfg := mustParseConfig(sessionPath)

	if args := pflag.Args(); len(args) != 0 {
		setupLogger(sessionPath, false)
		os.Exit(runPreview(cfg, sessionPath, args))
	}

	fileLock := mustLockSessionDirectory(filepath.Join(sessionPath, ".lock"))
	// keep a reference so GC won't close the underlying file and release the lock.
	defer fileLock.Unlock()

	setupLogger(sessionPath, viper.GetBool("log-save-to-file"))

	debug := viper.GetBool("debug")
	address := viper.GetString("web")
	webToken := viper.GetString("web-secret-token")

	if webToken == "" {
		webToken = random.URLSafeStr(32)
		_, _ = fmt.Fprintf(os.Stderr, "web secret token is empty, generating new token: %s\n", webToken)
	}

	if sys.IsLinux {
		if _, err := maxprocs.Set(); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Failed to set GOMAXPROCS automatically.")
			_, _ = fmt.Fprintln(os.Stderr, "Consider to set env manually if you are running with cgroup.")
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	d := mustNewDispatcher(cfg, sessionPath)
	d.Register(prometheus.DefaultRegisterer)

	server := &http.Server{
		Addr: address,
		Handler: web.New(web.Options{
			Sink:   d,
			Token:  webToken,
			Config: cfg,
			Debug:  debug,
		}),
	}

	var done = make(chan struct{}, 2)

	go func() {
		fmt.Println("start", "http://"+address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		done <- struct{}{}
	}()

	signalChan := make(chan os.Signal, 1)

	signal.Notify(
		signalChan,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		<-signalChan
		done <- struct{}{}
	}()

	<-done
	fmt.Println("shutting down...")
	_ = server.Shutdown(context.Background())
	d.Close()
}

func setupFlagsAndEnvParser() {
	pflag.String("session-path", "", "session path (default ~/.seedling/)")
	pflag.String("config-file", "", "path to config file (default {session-path}/config.toml)")

	pflag.String("web", "127.0.0.1:8003", "web interface address")
	pflag.String("web-secret-token", "", "web interface address secret token")

	pflag.Bool("create", false, "with file arguments, hand the torrent to the creator instead of only previewing it")
	pflag.String("comment", "", "torrent comment, used with --create")
	pflag.StringSlice("tracker", nil, "tracker url, can be repeated (default from config)")
	pflag.Bool("private", false, "mark the torrent private, used with --create")

	pflag.Bool("clean", false, "remove config, temp files and .torrent/magnet handlers, then exit")

	pflag.Bool("log-json", false, "log as json format")
	pflag.String("log-level", "error", "log level")
	pflag.Bool("log-save-to-file", true, "also write log to {session-path}/logs/app.log")

	pflag.Bool("debug", false, "enable debug mode")
	pflag.Bool("version", false, "print version and exit")

	// this avoids 'pflag: help requested' error when calling for help message.
	if slices.Contains(os.Args[1:], "--help") || slices.Contains(os.Args[1:], "-h") {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: seedling [flags] [file or folder...]")
		pflag.PrintDefaults()
		_, _ = fmt.Fprintln(os.Stderr, "\nWithout file arguments the web interface is started.")
		_, _ = fmt.Fprintln(os.Stderr, "Note: command arguments will override config file, but won't change config file.")
		os.Exit(0)
		return
	}

	pflag.Parse()

	viper.SetEnvPrefix("SEEDLING")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		errExit("failed to parse combine argument with env", err)
	}
}

func defaultSessionPath() string {
	h, err := os.UserHomeDir()
	if err != nil {
		errExit("failed to get home directory, please set session path with --session-path manually", err)
	}

	return filepath.Join(h, ".seedling")
}

func errExit(msg ...any) {
	_, _ = fmt.Fprintln(os.Stderr, msg...)
	os.Exit(1)
}

func createSessionDirectory(sessionPath string) {
	for _, dir := range []string{
		filepath.Join(sessionPath, "pending"),
		filepath.Join(sessionPath, "logs"),
	} {
		err := os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			errExit("fail to create directory for session", err)
		}
	}
}

func mustGetSessionPath() string {
	sessionPath := viper.GetString("session-path")

	if sessionPath == "" {
		return defaultSessionPath()
	}

	if strings.HasPrefix(sessionPath, "~/") || strings.HasPrefix(sessionPath, `~\`) {
		h, err := os.UserHomeDir()
		if err != nil {
			errExit("failed to get home directory, please set session path with --session-path manually", err)
		}

		sessionPath = strings.Replace(sessionPath, "~", h, 1)
	}

	return sessionPath
}

func mustLockSessionDirectory(lockPath string) *flock.Flock {
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		errExit("can't acquire lock:", err)
		return nil
	}
	if !locked {
		_, _ = fmt.Fprintln(os.Stderr, "can't acquire lock, maybe another process is running")
		_, _ = fmt.Fprintf(os.Stderr, "try remove %q if no other seedling instance is running\n", lockPath)
		os.Exit(1)
		return nil
	}

	return fileLock
}

func parseLogLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}

	errExit(fmt.Sprintf("unknown log level %q, only trace/debug/info/warn/error is allowed", s))

	return zerolog.NoLevel
}

func setupLogger(sessionPath string, saveLogFile bool) {
	jsonLog := viper.GetBool("log-json")
	logLevel := parseLogLevel(viper.GetString("log-level"))

	var w io.Writer = os.Stderr

	if !jsonLog {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if saveLogFile {
		rotation := &lumberjack.Logger{
			Filename:   filepath.Join(sessionPath, "logs", "app.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, //days
		}
		w = zerolog.MultiLevelWriter(rotation, w)
	}

	log.Logger = log.Output(w).Level(logLevel)
}

func configFilePath(sessionPath string) string {
	if p := viper.GetString("config-file"); p != "" {
		return p
	}

	return filepath.Join(sessionPath, "config.toml")
}

func mustParseConfig(sessionPath string) config.Config {
	cfg, err := config.LoadFromFile(configFilePath(sessionPath))
	if err != nil {
		errExit("failed to load config", err)
	}

	return cfg
}

func mustNewDispatcher(cfg config.Config, sessionPath string) *dispatch.Dispatcher {
	d, err := dispatch.New(dispatch.Spool{Dir: filepath.Join(sessionPath, "pending")}, cfg.Create.Workers)
	if err != nil {
		errExit("failed to start creator", err)
	}

	return d
}

// loadCleanupConfig reads the same config file as every other mode. A broken
// file must not stop the cleanup, so defaults are returned along with the error.
func loadCleanupConfig(sessionPath string) (config.Config, error) {
	cfg, err := config.LoadFromFile(configFilePath(sessionPath))
	if err != nil {
		return config.Default(), err
	}

	return cfg, nil
}

// runCleanup always exits 0 once every step was attempted, failures are only reported.
func runCleanup(sessionPath string) {
	cfg, err := loadCleanupConfig(sessionPath)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.YellowString("warning:"), err)
		_, _ = fmt.Fprintln(os.Stderr, color.YellowString("warning:"), "using default temp directory and handler entries")
	}

	r := cleanup.Run(context.Background(), cleanup.Plan(
		sessionPath,
		cleanup.TempPath(cfg.Cleanup.TempDirName),
		cleanup.NewDesktopHandlers(cfg.Cleanup.DesktopEntries),
	))

	for _, err := range r.Failures() {
		_, _ = fmt.Fprintln(os.Stderr, color.YellowString("warning:"), err)
	}
}

func runPreview(cfg config.Config, sessionPath string, args []string) int {
	set, err := selection.FromPaths(args)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return 1
	}

	trackers := viper.GetStringSlice("tracker")
	if len(trackers) == 0 {
		trackers = cfg.Create.Trackers
	}

	form := create.Form{
		Comment:      viper.GetString("comment"),
		Trackers:     create.FormatTrackers(trackers),
		Private:      viper.GetBool("private"),
		ShowAdvanced: true,
	}

	page, err := create.NewPage(set, form, cfg.PageOptions())
	if err != nil {
		if errors.Is(err, resolve.ErrEmptySelection) {
			// informational, the user only has to pick other files
			printErrorPage(create.EmptySelectionPage)
			return 0
		}

		_, _ = fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return 1
	}

	printPage(page, trackers)

	if !viper.GetBool("create") {
		return 0
	}

	req, _, err := create.Assemble(set, form)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return 1
	}

	d := mustNewDispatcher(cfg, sessionPath)
	err = d.Dispatch(req)
	d.Close()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return 1
	}

	return 0
}

func printPage(page create.Page, trackers []string) {
	fmt.Println(color.New(color.Bold).Sprint(page.Title))
	fmt.Println(page.Info)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRow(table.Row{"Path", page.Path})
	t.AppendRow(table.Row{"Base path", page.Metadata.BasePath})
	t.AppendRow(table.Row{"Trackers", strings.Join(trackers, "\n")})
	t.AppendSeparator()
	for _, line := range page.FileLines {
		t.AppendRow(table.Row{"", line})
	}
	t.Render()
}

func printErrorPage(page create.ErrorPage) {
	_, _ = fmt.Fprintln(os.Stderr, color.New(color.Bold).Sprint(page.Title))
	for _, msg := range page.Messages {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString(msg))
	}
}
