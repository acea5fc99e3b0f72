package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"trainlog/internal/auth"
	"trainlog/internal/config"
	"trainlog/internal/service"
	"trainlog/internal/store"
	"trainlog/internal/strava"
	"trainlog/internal/tui"
	"trainlog/internal/whoop"
)

var disconnectFlag = flag.String("disconnect", "", "forget stored tokens for a provider (strava or whoop) and exit")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if *disconnectFlag != "" {
		return disconnectProvider(db, *disconnectFlag)
	}

	// Strava is mandatory
	stravaSource, err := connectProvider(ctx, db, auth.Strava(), auth.Credentials{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})
	if err != nil {
		return fmt.Errorf("connecting Strava: %w", err)
	}
	stravaClient := strava.NewClient(stravaSource)

	// Whoop is optional; skip when no credentials are configured
	var whoopClient *whoop.Client
	if cfg.WhoopConfigured() {
		whoopSource, err := connectProvider(ctx, db, auth.Whoop(), auth.Credentials{
			ClientID:     cfg.Whoop.ClientID,
			ClientSecret: cfg.Whoop.ClientSecret,
			RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
		})
		if err != nil {
			return fmt.Errorf("connecting Whoop: %w", err)
		}
		whoopClient = whoop.NewClient(whoopSource)
	}

	// Create services
	syncSvc := service.NewSyncService(stravaClient, whoopClient, db)
	querySvc := service.NewQueryService(db, cfg.Athlete)
	units := tui.NewUnits(cfg.Display)

	// Launch TUI
	app := tui.NewApp(db, syncSvc, querySvc, units)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// connectProvider returns a self-refreshing token source for the provider,
// running the browser OAuth flow when no valid tokens are stored
func connectProvider(ctx context.Context, db *store.DB, p auth.Provider, creds auth.Credentials) (*auth.TokenSource, error) {
	oauthCfg := auth.NewOAuthConfig(p, creds)

	storedAuth, err := db.GetAuth(p.Name)
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Printf("No %s authentication found. Starting OAuth flow...\n", p.Name)
		if err := authenticate(ctx, db, p, oauthCfg); err != nil {
			return nil, fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth(p.Name)
		if err != nil {
			return nil, fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(p.Name, newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	// Test token is valid by getting a fresh one
	if _, err := tokenSource.Token(); err != nil {
		fmt.Printf("Stored %s token is invalid or expired. Re-authenticating...\n", p.Name)
		if err := authenticate(ctx, db, p, oauthCfg); err != nil {
			return nil, fmt.Errorf("re-authentication: %w", err)
		}
		storedAuth, err = db.GetAuth(p.Name)
		if err != nil {
			return nil, fmt.Errorf("fetching auth after login: %w", err)
		}
		token = &oauth2.Token{
			AccessToken:  storedAuth.AccessToken,
			RefreshToken: storedAuth.RefreshToken,
			Expiry:       storedAuth.ExpiresAt,
		}
		tokenSource = auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
			return db.UpdateTokens(p.Name, newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
		})
	}

	return tokenSource, nil
}

// disconnectProvider forgets a provider's stored tokens; the next start
// runs the OAuth flow again
func disconnectProvider(db *store.DB, provider string) error {
	switch provider {
	case store.ProviderStrava, store.ProviderWhoop:
	default:
		return fmt.Errorf("unknown provider %q (want strava or whoop)", provider)
	}

	if err := db.DeleteAuth(provider); err != nil {
		return fmt.Errorf("disconnecting %s: %w", provider, err)
	}

	fmt.Printf("Forgot stored %s tokens. The next start will re-authenticate.\n", provider)
	return nil
}

func authenticate(ctx context.Context, db *store.DB, p auth.Provider, oauthCfg *oauth2.Config) error {
	result, err := auth.Authenticate(ctx, p, oauthCfg)
	if err != nil {
		return err
	}

	storedAuth := &store.Auth{
		Provider:     p.Name,
		UserID:       result.UserID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully connected %s!\n", p.Name)
	return nil
}
