// portal is a command-line client for the company portal API. It keeps the
// session in a file so that consecutive invocations share one login, and
// refreshes the token transparently when the server rejects it.
//
//	portal login --role employee --email alice@co.com   (password from PORTAL_PASSWORD)
//	portal get /api/employee/tasks
//	portal refresh
//	portal logout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/pkg/claims"
	"github.com/spec-kit/company-portal/pkg/client"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, client.ErrAuthenticationFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL     string
		sessionPath string
		role        string
		email       string
		password    string
		body        string
		verbose     bool
	)

	flagSet := pflag.NewFlagSet("portal", pflag.ContinueOnError)
	flagSet.StringVar(&baseURL, "url", envOr("PORTAL_URL", "http://localhost:3000"), "portal base URL")
	flagSet.StringVar(&sessionPath, "session", defaultSessionPath(), "session file")
	flagSet.StringVar(&role, "role", "employee", "login role (admin or employee)")
	flagSet.StringVar(&email, "email", os.Getenv("PORTAL_EMAIL"), "login email")
	flagSet.StringVar(&password, "password", "", "login password (default: $PORTAL_PASSWORD)")
	flagSet.StringVarP(&body, "data", "d", "", "JSON request body for post/put")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log session activity to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(flagSet)
		return nil
	}

	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync() //nolint:errcheck
	}

	store := client.NewFileStore(sessionPath)
	manager, err := client.NewManager(client.Config{
		BaseURL:  baseURL,
		Store:    store,
		Logger:   logger,
		OnLogout: func() { fmt.Fprintln(os.Stderr, "session ended; run `portal login` again") },
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	args := flagSet.Args()
	switch cmd := args[0]; cmd {
	case "login":
		parsedRole, err := claims.ParseRole(role)
		if err != nil {
			return err
		}
		if password == "" {
			password = os.Getenv("PORTAL_PASSWORD")
		}
		if email == "" || password == "" {
			return errors.New("login needs --email and a password (--password or PORTAL_PASSWORD)")
		}
		res, err := manager.Login(ctx, parsedRole, email, password)
		if err != nil {
			return err
		}
		fmt.Printf("%s; token valid for %s\n", res.Message, time.Duration(res.ExpiresIn)*time.Second)
		return printJSON(res.Principal)

	case "get", "post", "put":
		if len(args) != 2 {
			return fmt.Errorf("usage: portal %s <path>", cmd)
		}
		var payload any
		if body != "" {
			payload = json.RawMessage(body)
		}
		var out json.RawMessage
		if err := manager.Do(ctx, strings.ToUpper(cmd), args[1], payload, &out); err != nil {
			return err
		}
		return printJSON(out)

	case "refresh":
		token, err := manager.Refresh(ctx)
		if err != nil {
			return err
		}
		c, err := claims.Decode(token)
		if err != nil {
			return err
		}
		fmt.Printf("token refreshed; expires %s\n", c.ExpiresAtTime().Format(time.RFC3339))
		return nil

	case "whoami":
		session, ok := manager.State().Session()
		if !ok {
			return errors.New("not logged in")
		}
		c, err := claims.Decode(session.Token)
		if err != nil {
			return err
		}
		state := "valid"
		if claims.IsExpired(session.Token, time.Now()) {
			state = "expired"
		}
		fmt.Printf("%s %s (id %d), token %s until %s\n",
			c.Role, c.Email, c.ID, state, c.ExpiresAtTime().Format(time.RFC3339))
		return nil

	case "logout":
		manager.Logout()
		return nil

	default:
		printHelp(flagSet)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "usage: portal [flags] <login|get|post|put|refresh|whoami|logout> [path]\n\nflags:\n")
	fmt.Fprint(os.Stderr, flagSet.FlagUsages())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".portal-session.json"
	}
	return filepath.Join(dir, "company-portal", "session.json")
}
