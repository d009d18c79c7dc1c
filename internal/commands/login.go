package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"taskchain/internal/backend/googletasks"
	"taskchain/internal/config"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. After authorizing it checks that the
// configured task list exists and switches config.yaml to the google backend.
type LoginCmd struct {
	tokenValid func(*config.Config) bool
	openList   func(context.Context, *config.Config) (string, error)
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with Google Tasks" }
func (c *LoginCmd) Usage() string     { return "taskchain login [common flags]" }
func (c *LoginCmd) NeedsStore() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

// SetTokenValidator replaces the stored token check (for testing).
func (c *LoginCmd) SetTokenValidator(fn func(*config.Config) bool) {
	c.tokenValid = fn
}

// SetListOpener replaces the lookup of the configured task list's title (for testing).
func (c *LoginCmd) SetListOpener(fn func(context.Context, *config.Config) (string, error)) {
	c.openList = fn
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		printOAuthClientHelp(cfg, errOut)
		return exitcode.AuthError
	}

	tokenValid := c.tokenValid
	if tokenValid == nil {
		tokenValid = isTokenValid
	}
	if cfg.HasToken() && tokenValid(cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return c.connect(ctx, cfg, out, errOut)
	}

	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	token, err := authorize(ctx, oauthConfig, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := saveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if code := c.connect(ctx, cfg, out, errOut); code != exitcode.Success {
		return code
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// connect opens the configured task list with the stored token and makes
// google the persisted backend. config.yaml is left alone if the list is missing.
func (c *LoginCmd) connect(ctx context.Context, cfg *config.Config, out, errOut io.Writer) int {
	openList := c.openList
	if openList == nil {
		openList = openGoogleList
	}
	title, err := openList(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: task list %q: %v\n", cfg.Settings.TaskList, err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "syncing task list: %s\n", title)
	}

	if cfg.Settings.BackendName() == config.BackendGoogle {
		return exitcode.Success
	}
	if err := cfg.SetBackend(config.BackendGoogle); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "backend set to %s in %s\n", config.BackendGoogle, cfg.SettingsPath())
	}
	return exitcode.Success
}

func openGoogleList(ctx context.Context, cfg *config.Config) (string, error) {
	client, err := googletasks.New(ctx, cfg,
		googletasks.WithListID(cfg.Settings.TaskList),
		googletasks.WithTimeout(cfg.Settings.Timeout),
		googletasks.WithLogger(cfg.Logger()),
	)
	if err != nil {
		return "", err
	}
	return client.ListTitle(ctx)
}

func printOAuthClientHelp(cfg *config.Config, errOut io.Writer) {
	fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
	fmt.Fprintln(errOut, "To sync with Google Tasks, you need OAuth credentials:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
	fmt.Fprintln(errOut, "3. Enable the Google Tasks API:")
	fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
	fmt.Fprintln(errOut, "4. Create OAuth 2.0 credentials:")
	fmt.Fprintln(errOut, "   - Click 'Create Credentials' > 'OAuth client ID'")
	fmt.Fprintln(errOut, "   - Choose 'Desktop app' as application type")
	fmt.Fprintln(errOut, "   - Download the JSON file")
	fmt.Fprintln(errOut, "5. Save it as:")
	fmt.Fprintf(errOut, "   %s/oauth_client.json\n", cfg.Dir)
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'taskchain login' again.")
}

func loadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, googletasks.TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// authorize runs the browser consent flow with PKCE against a local callback
// server and exchanges the returned code for a token.
func authorize(ctx context.Context, oauthConfig *oauth2.Config, errOut io.Writer) (*oauth2.Token, error) {
	port, listener, err := findAvailablePort()
	if err != nil {
		return nil, fmt.Errorf("could not bind to local port for OAuth callback")
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			errCh <- fmt.Errorf("no code in callback")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>taskchain is connected</h1><p>You may close this window.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(oauthCallbackTimeout):
		return nil, fmt.Errorf("oauth callback timed out")
	case <-ctx.Done():
		return nil, fmt.Errorf("cancelled")
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		addr := fmt.Sprintf("localhost:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}

// isTokenValid reports whether the stored token has a refresh token and can
// still produce an access token.
func isTokenValid(cfg *config.Config) bool {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return false
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil || token.RefreshToken == "" {
		return false
	}
	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, &token).Token()
	return err == nil
}

// saveToken saves an OAuth token to a file with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
