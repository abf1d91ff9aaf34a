package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/toeicplanner/internal/profile"
	"github.com/hrygo/toeicplanner/internal/version"
	"github.com/hrygo/toeicplanner/server"
	"github.com/hrygo/toeicplanner/server/runner/digest"
	"github.com/hrygo/toeicplanner/store"
	"github.com/hrygo/toeicplanner/store/db"
)

var (
	rootCmd = &cobra.Command{
		Use:   "toeicplanner",
		Short: `A study planner for TOEIC preparation: tasks, goals, calendar and encouragement.`,
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile := loadProfile()
			ctx, cancel := context.WithCancel(context.Background())

			storeInstance, err := openStore(ctx, instanceProfile)
			if err != nil {
				cancel()
				slog.Error("failed to open store", slog.String("error", err.Error()))
				return
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				cancel()
				slog.Error("failed to create server", slog.String("error", err.Error()))
				return
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)

			if err := s.Start(ctx); err != nil {
				cancel()
				slog.Error("failed to start server", slog.String("error", err.Error()))
				return
			}

			printGreetings(instanceProfile)

			go func() {
				<-c
				s.Shutdown(ctx)
				cancel()
			}()

			<-ctx.Done()
		},
	}

	digestCmd = &cobra.Command{
		Use:   "digest",
		Short: "Print today's digest of every owner once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			instanceProfile := loadProfile()
			ctx := cmd.Context()

			storeInstance, err := openStore(ctx, instanceProfile)
			if err != nil {
				return err
			}
			defer storeInstance.Close()

			runner := digest.NewRunner(storeInstance, instanceProfile.DigestSchedule, instanceProfile.Location())
			digests, err := runner.RunOnce(ctx)
			if err != nil {
				return err
			}
			for _, d := range digests {
				fmt.Printf("== %s ==\n%s\n\n", d.OwnerID, d.String())
			}
			return nil
		},
	}
)

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver: sqlite, postgres, firestore or memory")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your planner instance")
	rootCmd.PersistentFlags().String("timezone", "", "IANA timezone deciding today, e.g. Asia/Tokyo")
	rootCmd.PersistentFlags().String("default-user", "", "owner of requests without an X-User-ID header")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url", "timezone", "default-user"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("toeic")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	rootCmd.AddCommand(digestCmd)
}

func loadProfile() *profile.Profile {
	instanceProfile := &profile.Profile{
		Mode:        viper.GetString("mode"),
		Addr:        viper.GetString("addr"),
		Port:        viper.GetInt("port"),
		Data:        viper.GetString("data"),
		Driver:      viper.GetString("driver"),
		DSN:         viper.GetString("dsn"),
		InstanceURL: viper.GetString("instance-url"),
		Timezone:    viper.GetString("timezone"),
		DefaultUser: viper.GetString("default-user"),
		Version:     version.GetCurrentVersion(viper.GetString("mode")),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		panic(err)
	}
	return instanceProfile
}

func openStore(ctx context.Context, instanceProfile *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(ctx, instanceProfile)
	if err != nil {
		return nil, err
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		storeInstance.Close()
		return nil, err
	}
	return storeInstance, nil
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("TOEIC Planner %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)

	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
		fmt.Printf("Access your planner at: http://localhost:%d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
		fmt.Printf("Access your planner at: http://%s:%d\n", profile.Addr, profile.Port)
	}
	if profile.DigestSchedule != "" {
		fmt.Printf("Daily digest: %s (%s)\n", profile.DigestSchedule, profile.Location())
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", slog.String("error", err.Error()))
	}
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
