package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/inventario/internal/api"
	"github.com/erazemk/inventario/internal/db"
	"github.com/erazemk/inventario/internal/inventory"
	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/session"
	"github.com/erazemk/inventario/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also appended to that file. The returned cleanup closes it.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

type config struct {
	dbPath    string
	addr      string
	adminUser string
	logPath   string
	seed      bool
	tz        string
}

func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("inventario", flag.ContinueOnError)

	var cfg config
	fs.StringVar(&cfg.dbPath, "db", "inventario.sqlite3", "")
	fs.StringVar(&cfg.dbPath, "d", "inventario.sqlite3", "")
	fs.StringVar(&cfg.addr, "addr", ":8080", "")
	fs.StringVar(&cfg.addr, "a", ":8080", "")
	fs.StringVar(&cfg.adminUser, "user", "admin", "")
	fs.StringVar(&cfg.adminUser, "u", "admin", "")
	fs.StringVar(&cfg.logPath, "log", "", "")
	fs.StringVar(&cfg.logPath, "l", "", "")
	fs.BoolVar(&cfg.seed, "seed", false, "")
	fs.BoolVar(&cfg.seed, "s", false, "")
	fs.StringVar(&cfg.tz, "tz", "Local", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: inventario [flags]

Flags:
  -d, -db <path>          SQLite database for operator accounts (default: inventario.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        admin username on first run (default: admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -s, -seed               load demo users and equipment at startup
      -tz <zone>          time zone for exported reports (default: Local)
  -h, -help               show this help and exit

Inventory data lives in memory and is discarded on shutdown.
`)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return cfg, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	loc, err := time.LoadLocation(cfg.tz)
	if err != nil {
		slog.Error("invalid time zone", "tz", cfg.tz, "error", err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "path", cfg.dbPath)

	ctx := context.Background()

	// First run, or every operator was deleted: create an admin.
	password, created, err := bootstrapAdmin(ctx, database, cfg.adminUser)
	if err != nil {
		slog.Error("failed to create admin operator", "error", err)
		os.Exit(1)
	}
	if created {
		printInitResult(cfg.dbPath, cfg.adminUser, password)
		fmt.Println()
	}

	if n, err := store.PurgeExpiredTokens(ctx, database, time.Now()); err != nil {
		slog.Warn("failed to purge expired tokens", "error", err)
	} else if n > 0 {
		slog.Info("purged expired tokens", "count", n)
	}

	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	inv := inventory.New(inventory.Options{Identity: session.Resolver{}})
	if cfg.seed {
		inventory.SeedDemo(ctx, inv)
		sum := inv.Summary()
		slog.Info("demo data loaded", "users", sum.Users, "equipment", sum.Equipment, "movements", sum.Movements)
	}

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(database, jwtSecret, inv, loc)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.addr, "tz", loc.String())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, discarding inventory", "movements", len(inv.ListMovements()))
}

// bootstrapAdmin creates an admin operator with a generated password when
// the database has no active operators. It reports whether one was created.
func bootstrapAdmin(ctx context.Context, database *sql.DB, username string) (string, bool, error) {
	n, err := store.CountOperators(ctx, database)
	if err != nil {
		return "", false, err
	}
	if n > 0 {
		return "", false, nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", false, fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", false, fmt.Errorf("hashing password: %w", err)
	}

	if _, err := store.CreateOperator(ctx, database, username, "Administrator", string(hash), model.RoleAdmin); err != nil {
		return "", false, fmt.Errorf("creating admin operator: %w", err)
	}
	return password, true, nil
}

// printInitResult prints the generated admin credentials to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Println("No active operators found.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
