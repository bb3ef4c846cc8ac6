// cmd/reader/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"course_hub/internal/apiclient"
	"course_hub/internal/navigation"
	"course_hub/internal/reader"
)

var (
	rootCmd = &cobra.Command{
		Use:   "course-reader",
		Short: "Read a course_hub course in the terminal",
		RunE:  runReader,
	}
	certificateCmd = &cobra.Command{
		Use:   "certificate",
		Short: "Request a completion certificate for the course",
		RunE:  runCertificate,
	}
	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Queue a content sync (admin only)",
		RunE:  runSync,
	}
)

// COURSE_HUB_SERVER のように環境変数でも指定できる
var v = viper.New()

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("server", "http://localhost:8080", "course_hub API base URL")
	flags.String("course", "", "Course slug")
	flags.String("email", "", "Login email")
	flags.String("password", "", "Login password")
	flags.String("token", "", "Use an existing access token instead of logging in")
	flags.String("log-file", "", "Write debug logs to this file")

	rootCmd.Flags().String("unit", "1", "Unit number to open")
	rootCmd.Flags().String("chunk", "1", "Chunk number to open (1-based)")

	v.SetEnvPrefix("COURSE_HUB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)
	_ = v.BindPFlags(rootCmd.Flags())

	rootCmd.AddCommand(certificateCmd, syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

// newLogger は端末を bubbletea が使うので、ログはファイルにだけ書きます。
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	handler := tint.NewHandler(f, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})
	return slog.New(handler), func() { f.Close() }, nil
}

// newClient はフラグに従ってログイン済みのクライアントを作ります。
func newClient(ctx context.Context, logger *slog.Logger) (*apiclient.Client, error) {
	client := apiclient.New(v.GetString("server"), apiclient.WithLogger(logger))

	switch {
	case v.GetString("token") != "":
		// 有効期限は分からないので先回りのリフレッシュはしない
		client.Auth().Set(apiclient.Auth{Token: v.GetString("token")})
	case v.GetString("email") != "":
		if err := client.Login(ctx, v.GetString("email"), v.GetString("password")); err != nil {
			return nil, fmt.Errorf("login: %s", apiclient.AccessMessage(err))
		}
		logger.Info("logged in", slog.String("email", v.GetString("email")))
	}
	return client, nil
}

func courseSlug() (string, error) {
	slug := v.GetString("course")
	if slug == "" {
		return "", fmt.Errorf("--course is required")
	}
	return slug, nil
}

func runReader(cmd *cobra.Command, _ []string) error {
	slug, err := courseSlug()
	if err != nil {
		return err
	}
	idx, err := navigation.ParseChunkNumber(v.GetString("chunk"))
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(v.GetString("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	client, err := newClient(cmd.Context(), logger)
	if err != nil {
		return err
	}

	start := navigation.Position{UnitNumber: v.GetString("unit"), Chunk: idx}
	p := tea.NewProgram(reader.New(client, slug, start), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("reader: %w", err)
	}
	return nil
}

func runCertificate(cmd *cobra.Command, _ []string) error {
	slug, err := courseSlug()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(v.GetString("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(cmd.Context(), logger)
	if err != nil {
		return err
	}
	cert, err := client.RequestCertificate(cmd.Context(), slug)
	if err != nil {
		return fmt.Errorf("certificate: %s", apiclient.AccessMessage(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "修了証番号: %s\n", cert.CertificateID)
	return nil
}

func runSync(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(v.GetString("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(cmd.Context(), logger)
	if err != nil {
		return err
	}
	req, err := client.RequestSync(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync: %s", apiclient.AccessMessage(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "同期を受け付けました: %s (%s)\n", req.SyncRequestID, req.Status)
	return nil
}
