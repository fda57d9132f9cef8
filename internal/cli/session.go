package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/session"
)

const loginTimeout = 10 * time.Second

var sessionPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Path to the saved session (default ~/.moneymates/session.json)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().String("pin", "", "4-digit PIN, if the profile has one")
	loginCmd.Flags().String("server", "", "Sign in against a running server instead of the local store")
}

func sessionStore() (*session.Store, error) {
	path := sessionPath
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	// The device record always lasts 30 days; auth.session_ttl only
	// bounds server tokens.
	return session.NewStore(path, session.DefaultTTL), nil
}

// actorFor returns the --as flag, or the signed-in profile.
func actorFor(cmd *cobra.Command) (string, error) {
	if as, _ := cmd.Flags().GetString("as"); as != "" {
		if !models.IsProfileID(as) {
			return "", fmt.Errorf("unknown profile %q", as)
		}
		return as, nil
	}
	store, err := sessionStore()
	if err != nil {
		return "", err
	}
	sess, err := store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return "", errors.New("not signed in: run 'moneymates login PROFILE' or pass --as")
	}
	if err != nil {
		return "", err
	}
	return sess.ProfileID, nil
}

// ─── login ──────────────────────────────────────────────────────────────────

var loginCmd = &cobra.Command{
	Use:   "login PROFILE",
	Short: "Sign in as pea or cam",
	Long: `Sign in as a profile and remember it on this device for 30 days. With
--server the token is issued by a running server; otherwise the local store
is checked directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	profileID := strings.ToLower(args[0])
	pin, _ := cmd.Flags().GetString("pin")
	server, _ := cmd.Flags().GetString("server")

	store, err := sessionStore()
	if err != nil {
		return err
	}

	var token string
	if server != "" {
		server = strings.TrimRight(server, "/")
		token, err = remoteLogin(cmd.Context(), server, profileID, pin)
	} else {
		token, err = localLogin(cmd.Context(), profileID, pin)
	}
	if err != nil {
		return err
	}

	if err := store.Save(session.Session{ProfileID: profileID, Token: token, Server: server}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", profileID)
	return nil
}

func localLogin(ctx context.Context, profileID, pin string) (string, error) {
	a, err := openApp(ctx)
	if err != nil {
		return "", err
	}
	defer a.Close()

	res, err := a.svc.Profiles.Login(ctx, profileID, pin)
	if err != nil {
		return "", err
	}
	return res.Token, nil
}

type loginReply struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// remoteLogin posts to the server's login endpoint, retrying transient
// failures. Rejected credentials are not retried.
func remoteLogin(ctx context.Context, server, profileID, pin string) (string, error) {
	body, err := json.Marshal(map[string]string{"profileId": profileID, "pin": pin})
	if err != nil {
		return "", err
	}

	var token string
	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, loginTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, server+"/api/login", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var reply loginReply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			return fmt.Errorf("unexpected response from %s: %w", server, err)
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			token = reply.Token
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("server error: %s", reply.Error)
		default:
			return backoff.Permanent(fmt.Errorf("login rejected: %s", reply.Error))
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return token, nil
}

// ─── whoami ─────────────────────────────────────────────────────────────────

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	store, err := sessionStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sess, err := store.Load()
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}
	if err != nil {
		return err
	}

	where := "local store"
	if sess.Server != "" {
		where = sess.Server
	}
	expires := time.UnixMilli(sess.Timestamp).Add(session.DefaultTTL)
	fmt.Fprintf(out, "Signed in as %s (%s), until %s.\n", sess.ProfileID, where, expires.Format(time.DateOnly))
	return nil
}

// ─── logout ─────────────────────────────────────────────────────────────────

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in profile on this device",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := sessionStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}
