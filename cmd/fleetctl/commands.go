package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"fleet-backend/internal/auth"
	"fleet-backend/internal/config"
	"fleet-backend/internal/database"
	"fleet-backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Operator commands for the fleet backend",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newCreateStaffCommand(),
		newHashPasswordCommand(),
	)
	return cmd
}

// openDB connects and migrates; every database command needs the schema.
func openDB() (*sqlx.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Database migrations completed")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert fixture data from a YAML file (existing rows are skipped)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := database.LoadSeedFile(file)
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			log.Printf("🌱 Seeding from %s...", file)
			report, err := database.NewStore(db).Seed(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Seed complete: %d created, %d skipped\n", report.Created, report.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "fixture file")
	return cmd
}

type staffOptions struct {
	role      string
	email     string
	password  string
	firstName string
	lastName  string
}

func (o staffOptions) input() (auth.Role, models.StaffInput, error) {
	role, ok := auth.ParseRole(o.role)
	if !ok {
		return "", models.StaffInput{}, fmt.Errorf("--type must be admin or driver, got %q", o.role)
	}
	if o.email == "" || o.firstName == "" || o.lastName == "" {
		return "", models.StaffInput{}, errors.New("--email, --first-name and --last-name are required")
	}
	hash, err := auth.HashPassword(o.password)
	if err != nil {
		return "", models.StaffInput{}, err
	}
	return role, models.StaffInput{
		FirstName:    o.firstName,
		LastName:     o.lastName,
		Email:        strings.TrimSpace(o.email),
		PasswordHash: hash,
	}, nil
}

func newCreateStaffCommand() *cobra.Command {
	var opts staffOptions
	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create an admin or driver account",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, in, err := opts.input()
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := database.NewStore(db).CreateStaff(cmd.Context(), role, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Created %s %s (id %d)\n", role, in.Email, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.role, "type", "admin", "admin or driver")
	cmd.Flags().StringVar(&opts.email, "email", "", "login email")
	cmd.Flags().StringVar(&opts.password, "password", "", "initial password")
	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "given name")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "family name")
	return cmd
}

// newHashPasswordCommand prints a bcrypt hash for manual row fixes. The
// password comes from the argument or, when absent, the first stdin line.
func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = line
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
