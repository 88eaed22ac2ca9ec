// AngelaMos | 2026
// db.go

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelamos/artvia-backend/internal/category"
	"github.com/angelamos/artvia-backend/internal/user"
	"github.com/angelamos/artvia-backend/migrations"
)

func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer e.close(context.Background())

	return fn(ctx, e)
}

// artvia migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			applied, err := migrations.NewRunner(e.db.DB, e.logger.Logger).Up(ctx)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("Nothing to migrate.")
				return nil
			}
			for _, name := range applied {
				fmt.Println("Migrated:", name)
			}
			return nil
		})
	},
}

// artvia migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			runner := migrations.NewRunner(e.db.DB, e.logger.Logger)

			applied, err := runner.Applied(ctx)
			if err != nil {
				return err
			}
			pending, err := runner.Pending(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MIGRATION\tBATCH\tRUN AT")
			for _, rec := range applied {
				fmt.Fprintf(tw, "%s\t%d\t%s\n",
					rec.Name, rec.Batch, rec.RunAt.Format("2006-01-02 15:04:05"))
			}
			for _, m := range pending {
				fmt.Fprintf(tw, "%s\t-\tpending\n", m.Name)
			}
			return tw.Flush()
		})
	},
}

var resetCategories bool

// artvia seed-categories
var seedCmd = &cobra.Command{
	Use:   "seed-categories",
	Short: "Insert or refresh the default product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			svc := category.NewService(category.NewRepository(e.db.DB))

			n, err := svc.Seed(ctx, resetCategories)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d categories.\n", n)
			return nil
		})
	},
}

var (
	passwordEmail string
	passwordValue string
	passwordAll   bool
)

// artvia hash-password
var passwordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash stored plaintext passwords or set a new one",
	Long: `With --email, hashes the password of that account. --password sets a
new password; without it the plaintext value already stored is hashed.
With --all, every account still holding a plaintext password is hashed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if passwordAll == (passwordEmail != "") {
			return errors.New("pass exactly one of --email or --all")
		}

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			svc := user.NewService(user.NewRepository(e.db.DB))

			if passwordAll {
				n, err := svc.MigrateLegacyPasswords(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Hashed %d legacy passwords.\n", n)
				return nil
			}

			u, err := svc.SetPassword(ctx, passwordEmail, passwordValue)
			if err != nil {
				return err
			}
			fmt.Printf("Password updated for %s (role %s).\n", u.Email, u.Role)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().BoolVar(
		&resetCategories,
		"reset",
		false,
		"delete existing categories before seeding",
	)

	passwordCmd.Flags().StringVar(&passwordEmail, "email", "", "account email")
	passwordCmd.Flags().StringVar(&passwordValue, "password", "", "new password")
	passwordCmd.Flags().BoolVar(&passwordAll, "all", false, "hash every plaintext password")
}
