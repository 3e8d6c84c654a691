package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/quillhq/quill/internal/client/api"
	"github.com/quillhq/quill/internal/client/config"
	"github.com/quillhq/quill/internal/client/notifications"
	"github.com/quillhq/quill/internal/client/session"
	"github.com/quillhq/quill/internal/client/tokenstore"
	"github.com/quillhq/quill/internal/logging"

	_ "modernc.org/sqlite"
)

// App is the interactive Quill client. It owns the local token database and
// the session manager; everything else is wiring around the REPL.
type App struct {
	config  *config.Config
	session *session.Manager
	db      *sql.DB
	reader  *bufio.Reader
	log     logging.Logger

	unsubToast func()
	userName   string
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := tokenstore.InitDatabase(ctx, c.TokenDBPath)
	if err != nil {
		log.Error(ctx, "failed to initialize token database", "err", err)
		return nil, err
	}

	store := tokenstore.NewSQLiteStore(db)
	gw := api.New(c.ServerBaseURL, store, c.RequestTimeout, log)
	sm := session.New(store, gw, c.NotificationsURL, log)

	a := &App{
		config:  c,
		session: sm,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
	}
	a.unsubToast = sm.SubscribeNotifications(a.printToast)
	return a, nil
}

// printToast renders a pushed notification above the prompt. It runs on the
// dispatcher goroutine, so it only prints.
func (a *App) printToast(t notifications.Toast) {
	printfFn("\n[%s] %s on %q  (open %d)\n", t.Affordance, t.Title, t.PostTitle, t.EventID)
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	// restore the signed-in state from a previous run
	if s, err := a.session.Session(ctx); err == nil && s != nil {
		a.userName = s.Username
	}

	printlnFn("Welcome to Quill CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close tears down the notification stream and the token database.
func (a *App) Close() {
	a.session.CloseNotifications()
	if a.unsubToast != nil {
		a.unsubToast()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) getStatus() string {
	s := a.userName
	if a.session.NotificationsOpen() {
		s += " +noti"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}
