// Command useradd provisions an account that can log in scanning devices.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ticket-scanner-server/internal/config"
	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"
	"ticket-scanner-server/internal/service"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/spf13/pflag"
)

func main() {
	var (
		email       = pflag.String("email", "", "login email address (required)")
		password    = pflag.String("password", "", "password, at least 8 characters (required)")
		firstName   = pflag.String("first-name", "", "first name shown in the scanner app")
		surname     = pflag.String("surname", "", "surname shown in the scanner app")
		permissions = pflag.StringSlice("permission", []string{domain.PermissionHandleCheckIn}, "permission codes to grant")
	)
	pflag.Parse()

	if err := run(*email, *password, *firstName, *surname, *permissions); err != nil {
		fmt.Fprintf(os.Stderr, "useradd: %v\n", err)
		os.Exit(1)
	}
}

func run(email, password, firstName, surname string, permissions []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		return fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(repository.NewUserRepository(client, cfg.Database.Name))

	user, err := users.Create(ctx, &domain.CreateUserRequest{
		Email:       email,
		Password:    password,
		FirstName:   firstName,
		Surname:     surname,
		Permissions: permissions,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (%s) with permissions %v\n", user.ID, user.Email, user.Permissions)
	return nil
}
