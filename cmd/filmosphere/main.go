package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/abdurrahim-bayraktar/Filmosphere/admin"
	"github.com/abdurrahim-bayraktar/Filmosphere/auth"
	"github.com/abdurrahim-bayraktar/Filmosphere/chat"
	"github.com/abdurrahim-bayraktar/Filmosphere/films"
	"github.com/abdurrahim-bayraktar/Filmosphere/gateway"
	"github.com/abdurrahim-bayraktar/Filmosphere/internal/config"
	"github.com/abdurrahim-bayraktar/Filmosphere/search"
	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore/file"
	"github.com/abdurrahim-bayraktar/Filmosphere/users"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running client")
	}
}

type app struct {
	auth   *auth.Service
	films  *films.Client
	users  *users.Client
	chat   *chat.Client
	search *search.Client
	admin  *admin.Client
	in     *bufio.Scanner
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	displayAppname("Filmosphere")
	log.Info().Str("backend", cfg.BaseURL).Msg("starting up...")

	store := file.New(cfg.TokenPath)
	gw, err := gateway.New(cfg.BaseURL, store,
		gateway.WithLogger(log.Logger),
		gateway.OnLoggedOut(func() {
			fmt.Println("Your session has ended. Please log in again.")
		}),
	)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	a := &app{in: bufio.NewScanner(os.Stdin)}
	if a.auth, err = auth.NewService(gw, store, auth.WithLogger(log.Logger)); err != nil {
		return fmt.Errorf("create auth service: %w", err)
	}
	if a.films, err = films.NewClient(gw); err != nil {
		return err
	}
	if a.users, err = users.NewClient(gw); err != nil {
		return err
	}
	if a.chat, err = chat.NewClient(gw); err != nil {
		return err
	}
	if a.search, err = search.NewClient(gw); err != nil {
		return err
	}
	if a.admin, err = admin.NewClient(gw, a.auth.Cache()); err != nil {
		return err
	}

	return a.loop(context.Background())
}

// loop alternates between the unauthenticated landing prompt and the home
// prompt until the user quits. Any teardown of the session drops the user
// back onto the landing prompt.
func (a *app) loop(ctx context.Context) error {
	for {
		current, err := a.auth.Current()
		if err != nil {
			return err
		}
		if !current.LoggedIn() {
			if quit := a.landing(ctx); quit {
				return nil
			}
			continue
		}
		if quit := a.home(ctx); quit {
			return nil
		}
	}
}

func (a *app) landing(ctx context.Context) (quit bool) {
	fmt.Println("Commands: login | register | quit")
	line, ok := a.prompt("> ")
	if !ok {
		return true
	}

	switch line {
	case "login":
		username, _ := a.prompt("username: ")
		password, _ := a.prompt("password: ")
		if _, err := a.auth.Login(ctx, username, password); err != nil {
			fmt.Println("Invalid login credentials")
			log.Debug().Err(err).Msg("login failed")
			return false
		}
		fmt.Println("Welcome back!")
	case "register":
		username, _ := a.prompt("username: ")
		email, _ := a.prompt("email: ")
		password, _ := a.prompt("password: ")
		if _, err := a.auth.Register(ctx, username, email, password, ""); err != nil {
			fmt.Println("Registration failed:", describe(err))
			return false
		}
		fmt.Println("Account created, you are logged in.")
	case "quit":
		return true
	}
	return false
}

func (a *app) home(ctx context.Context) (quit bool) {
	profile := a.auth.Cache().Get()
	name := "there"
	if profile != nil {
		name = profile.Username
	}
	fmt.Printf("[%s] Commands: me | film <imdb-id> | search <query> | lists | follow <username> | chat <message> | stats | logout | quit\n", name)

	line, ok := a.prompt("> ")
	if !ok {
		return true
	}
	cmd, arg, _ := strings.Cut(line, " ")

	var err error
	switch cmd {
	case "me":
		err = a.showProfile(ctx)
	case "film":
		err = a.showFilm(ctx, arg)
	case "search":
		err = a.runSearch(ctx, arg)
	case "lists":
		err = a.showLists(ctx)
	case "follow":
		err = a.toggleFollow(ctx, arg)
	case "chat":
		err = a.sendChat(ctx, arg)
	case "stats":
		err = a.showStats(ctx)
	case "logout":
		if err := a.auth.Logout(); err != nil {
			return false
		}
		fmt.Println("Logged out.")
		return false
	case "quit":
		return true
	default:
		return false
	}

	switch {
	case err == nil:
	case errors.Is(err, gateway.ErrUnauthenticated):
		// The gateway already tore the session down; the loop falls back to landing
	case errors.Is(err, gateway.ErrForbidden):
		fmt.Println("Access denied. Admin privileges required.")
	case gateway.IsTransient(err):
		fmt.Println("Could not reach the server, try again.")
	default:
		fmt.Println("Error:", describe(err))
	}
	return false
}

func (a *app) showProfile(ctx context.Context) error {
	profile, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>  admin=%v\n", profile.Username, profile.Email, profile.IsAdmin())
	if profile.Bio != "" {
		fmt.Println(profile.Bio)
	}
	return nil
}

func (a *app) showFilm(ctx context.Context, imdbID string) error {
	detail, err := a.films.Details(ctx, imdbID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d)  avg %.1f over %d ratings\n",
		detail.Title, detail.Year, detail.RatingStatistics.Overall, detail.RatingStatistics.TotalRatings)
	return nil
}

func (a *app) runSearch(ctx context.Context, query string) error {
	results, err := a.search.IMDB(ctx, query)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("%-12s %s (%d)\n", r.ImdbID, r.Title, r.Year)
	}
	return nil
}

func (a *app) showLists(ctx context.Context) error {
	lists, err := a.films.Lists(ctx)
	if err != nil {
		return err
	}
	for _, l := range lists {
		fmt.Printf("#%d %s (%d films)\n", l.ID, l.Title, len(l.Films))
	}
	return nil
}

func (a *app) toggleFollow(ctx context.Context, username string) error {
	following, err := a.users.FollowToggle(ctx, username)
	if err != nil {
		return err
	}
	if following {
		fmt.Println("Now following", username)
	} else {
		fmt.Println("Unfollowed", username)
	}
	return nil
}

func (a *app) sendChat(ctx context.Context, message string) error {
	reply, err := a.chat.Send(ctx, message)
	if err != nil {
		return err
	}
	if reply.Blocked {
		fmt.Println(reply.Message)
		return nil
	}
	for _, item := range reply.Items {
		fmt.Printf("- %s (%d): %s\n", item.Title, item.Year, item.Reason)
	}
	return nil
}

func (a *app) showStats(ctx context.Context) error {
	stats, err := a.admin.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("users=%d films=%d reviews=%d ratings=%d\n",
		stats.TotalUsers, stats.TotalFilms, stats.TotalReviews, stats.TotalRatings)
	return nil
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func describe(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	return err.Error()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
