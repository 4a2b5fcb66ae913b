package main

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/adapters/file"
	redisAdapter "github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/session"
)

var rootCmd = &cobra.Command{
	Use:   "waypoint",
	Short: "Waypoint is a navigation state manager for nested screens",
	Long:  `Waypoint validates navigation definitions, lets you drive them interactively and inspects persisted navigation sessions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project directory; sessions live in <dir>/.waypoint/sessions")
	rootCmd.PersistentFlags().String("redis", "", "Redis address; stores sessions in Redis instead of files")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSlice("redact", nil, "Regex of payload field names to mask before sessions are stored")
}

func getLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(level))
}

// getSessions opens the configured session store. The returned func releases
// its connections.
//
// WAYPOINT_ENCRYPTION_KEY (base64, 32 bytes) seals stored sessions.
// WAYPOINT_ENCRYPTION_FALLBACK_KEYS holds comma separated retired keys that
// can still decrypt.
func getSessions(cmd *cobra.Command) (*session.Manager, func()) {
	logger := getLogger(cmd)

	redact, _ := cmd.Flags().GetStringSlice("redact")
	mws, err := storeMiddlewares(redact, os.Getenv("WAYPOINT_ENCRYPTION_KEY"), os.Getenv("WAYPOINT_ENCRYPTION_FALLBACK_KEYS"))
	if err != nil {
		fmt.Printf("Error configuring session store: %v\n", err)
		os.Exit(1)
	}

	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		store := redisAdapter.New(addr, os.Getenv("WAYPOINT_REDIS_PASSWORD"), 0)
		locker := redisAdapter.NewLocker(store.Client(), redisAdapter.DefaultPrefix)
		mgr := session.NewManager(middleware.Chain(store, mws...), session.WithLocker(locker), session.WithLogger(logger))
		return mgr, func() { _ = store.Close() }
	}

	projectDir, _ := cmd.Flags().GetString("dir")
	if projectDir == "" {
		projectDir = "."
	}
	var store ports.SnapshotStore = file.New(filepath.Join(projectDir, ".waypoint", "sessions"))
	return session.NewManager(middleware.Chain(store, mws...), session.WithLogger(logger)), func() {}
}

// storeMiddlewares builds the redaction and encryption layers. Redaction runs
// first so masked values never reach the cipher.
func storeMiddlewares(redact []string, activeKey, fallbackKeys string) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	for _, pattern := range redact {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("--redact %q: %w", pattern, err)
		}
	}
	if len(redact) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(redact))
	}
	if activeKey == "" {
		return mws, nil
	}

	active, err := decodeKey(activeKey)
	if err != nil {
		return nil, fmt.Errorf("WAYPOINT_ENCRYPTION_KEY: %w", err)
	}
	cfg := middleware.EncryptionConfig{ActiveKey: active}
	for _, raw := range strings.Split(fallbackKeys, ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		key, err := decodeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("WAYPOINT_ENCRYPTION_FALLBACK_KEYS: %w", err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return append(mws, middleware.NewEncryptionMiddleware(cfg)), nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}
