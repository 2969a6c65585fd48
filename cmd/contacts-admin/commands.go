package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Varun5711/contatos/internal/auth"
	"github.com/Varun5711/contatos/internal/config"
	"github.com/Varun5711/contatos/internal/database"
	"github.com/Varun5711/contatos/internal/logger"
	"github.com/Varun5711/contatos/internal/models"
	usermodel "github.com/Varun5711/contatos/internal/models/user"
	"github.com/Varun5711/contatos/internal/service"
	"github.com/Varun5711/contatos/internal/storage"
)

var errNoDatabase = errors.New("DB_PRIMARY_DSN must be set")

// app holds the services a command runs against. Tests fill it in directly;
// otherwise open connects to the configured database.
type app struct {
	log      *logger.Logger
	cfg      *config.Config
	contacts *service.ContactService
	users    *service.UserService
	closeDB  func()
}

func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) open(ctx context.Context) error {
	if a.contacts != nil && a.users != nil {
		return nil
	}
	if err := a.loadConfig(); err != nil {
		return err
	}
	if a.cfg.Database.PrimaryDSN == "" {
		return errNoDatabase
	}

	db, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN: a.cfg.Database.PrimaryDSN,
		MaxConns:   2,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closeDB = db.Close

	jwtManager := auth.NewJWTManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.AccessTokenExpiry)
	a.contacts = service.NewContactService(storage.NewPostgresStorage(db))
	a.users = service.NewUserService(storage.NewUserStorage(db), jwtManager)
	return nil
}

func (a *app) close() {
	if a.closeDB != nil {
		a.closeDB()
		a.closeDB = nil
	}
}

// execute runs the command line and releases the database pool whether or
// not the command succeeded.
func execute(a *app, args []string, out io.Writer) error {
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetOut(out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	if a.log == nil {
		a.log = logger.New("contacts-admin")
	}

	root := &cobra.Command{
		Use:          "contacts-admin",
		Short:        "Maintenance commands for the contacts service",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(a),
		newUserCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newQRCodeCmd(a),
	)
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := a.dsn()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(dsn); err != nil {
				return err
			}
			a.log.Info("Migrations applied")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			dsn, err := a.dsn()
			if err != nil {
				return err
			}
			if err := database.RollbackMigrations(dsn, steps); err != nil {
				return err
			}
			a.log.Info("Rolled back %d migration(s)", steps)
			return nil
		},
	}
	downCmd.Flags().Int("steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(upCmd, downCmd)
	return migrateCmd
}

func (a *app) dsn() (string, error) {
	if err := a.loadConfig(); err != nil {
		return "", err
	}
	if a.cfg.Database.PrimaryDSN == "" {
		return "", errNoDatabase
	}
	return a.cfg.Database.PrimaryDSN, nil
}

func newUserCmd(a *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user that can call the protected endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			if err := a.open(cmd.Context()); err != nil {
				return err
			}

			resp, err := a.users.Register(cmd.Context(), usermodel.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", resp.User.Email, resp.User.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "display name")
	createCmd.Flags().String("email", "", "login email")
	createCmd.Flags().String("password", "", "password (at least 8 characters)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd)
	return userCmd
}

func newListCmd(a *app) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			group, _ := cmd.Flags().GetString("group")
			offset, _ := cmd.Flags().GetInt("skip")
			limit, _ := cmd.Flags().GetInt("limit")

			var favorite *bool
			if cmd.Flags().Changed("favorite") {
				v, _ := cmd.Flags().GetBool("favorite")
				favorite = &v
			}

			if err := a.open(cmd.Context()); err != nil {
				return err
			}

			contacts, err := a.contacts.List(cmd.Context(), models.ListParams{
				Search:   search,
				Group:    group,
				Favorite: favorite,
				Offset:   offset,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(contacts) == 0 {
				fmt.Fprintln(out, "No contacts found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOME\tTELEFONE\tEMAIL\tGRUPO\tFAVORITO")
			for _, c := range contacts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
					c.ID, c.Name, c.Phone, c.Email, c.Group, c.Favorite)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().String("search", "", "substring of name, phone or email")
	listCmd.Flags().String("group", "", "exact group name")
	listCmd.Flags().Bool("favorite", false, "only favorites (or only non-favorites with --favorite=false)")
	listCmd.Flags().Int("skip", 0, "contacts to skip")
	listCmd.Flags().Int("limit", service.DefaultPageSize, "page size (max 100)")
	return listCmd
}

func newExportCmd(a *app) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write every contact as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("out")

			if err := a.open(cmd.Context()); err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if path != "" && path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				defer f.Close()
				out = f
			}

			if err := a.contacts.ExportCSV(cmd.Context(), out); err != nil {
				return err
			}
			if path != "" && path != "-" {
				a.log.Info("Exported contacts to %s", path)
			}
			return nil
		},
	}
	exportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return exportCmd
}

func newQRCodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "qrcode <id>",
		Short: "Print a contact's vCard QR code in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid contact id %q", args[0])
			}

			if err := a.open(cmd.Context()); err != nil {
				return err
			}

			text, err := a.contacts.QRCodeText(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
