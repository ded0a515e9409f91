package authcli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tickpulse/tickpulse/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// App drives the interactive session: it prompts for input, calls the
// server through Client, and prints results.
type App struct {
	config *Config
	client *Client
	reader *bufio.Reader
	email  string
}

// NewApp constructs the CLI application.
func NewApp(cfg *Config) *App {
	return &App{
		config: cfg,
		client: NewClient(cfg),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

// Register prompts for an email and password and creates a new account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	identity, err := a.client.Register(ctx, email, password)
	if err != nil {
		log.Printf("Registration unsuccessfull: %s", err.Error())
		return err
	}

	printlnFn("Registered as", identity.Email)
	return nil
}

// Login prompts for credentials and authenticates against the server. On
// success the client remembers the issued token pair. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	identity, err := a.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			log.Printf("Server unavailable: %s", err.Error())
		} else {
			log.Printf("Login unsuccessfull: %s", err.Error())
		}
		return err
	}

	a.email = identity.Email
	printlnFn("Logged in as", identity.Email)
	return nil
}

// Refresh rotates the session's refresh token for a new pair.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.client.Refresh(ctx); err != nil {
		log.Printf("Refresh unsuccessfull: %s", err.Error())
		if errors.Is(err, common.ErrTokenRevoked) {
			a.email = ""
		}
		return err
	}
	printlnFn("Token pair refreshed")
	return nil
}

// WhoAmI asks the server which identity the current access token carries.
func (a *App) WhoAmI(ctx context.Context) error {
	identity, err := a.client.VerifyToken(ctx)
	if err != nil {
		log.Printf("Verification unsuccessfull: %s", err.Error())
		return err
	}
	printlnFn("Authenticated as", identity.Email, "(id", identity.ID+")")
	return nil
}

// Home fetches the gated home payload.
func (a *App) Home(ctx context.Context) error {
	identity, serverTime, err := a.client.HomeData(ctx)
	if err != nil {
		log.Printf("Request unsuccessfull: %s", err.Error())
		return err
	}
	printlnFn("Hello,", identity.Email+"; server time:", serverTime.Format("15:04:05"))
	return nil
}

// Logout revokes the session on the server and forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	a.email = ""
	if err != nil {
		log.Printf("Logout completed locally, server unreachable: %s", err.Error())
		return nil
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.email
	}
	return "not logged in"
}

// Run starts the read-eval-print loop. It exits on EOF or when the user
// types "exit" or "quit".
func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	a.runREPL(ctx, scanner)
}

func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tp> %s > ", a.status()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, home, refresh, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "home":
			_ = a.Home(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
