package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/events"
	"github.com/set-night/ledgercore/internal/repository"
	"github.com/set-night/ledgercore/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// telegramAPI records the text of every sendMessage call.
type telegramAPI struct {
	mu   sync.Mutex
	sent []string
}

func (a *telegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/sendMessage") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			a.mu.Lock()
			a.sent = append(a.sent, r.FormValue("text"))
			a.mu.Unlock()
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
}

func (a *telegramAPI) last(t *testing.T) string {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.sent)
	return a.sent[len(a.sent)-1]
}

type opsBot struct {
	bot *bot.Bot
	api *telegramAPI
}

func newOpsBot(t *testing.T) *opsBot {
	t.Helper()
	api := &telegramAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test",
		bot.WithServerURL(srv.URL),
		bot.WithSkipGetMe(),
		bot.WithNotAsyncHandlers(),
	)
	require.NoError(t, err)

	store := repository.NewMemoryStore(time.Second)
	h := New(Deps{
		Bot:     b,
		Cfg:     &config.Config{},
		Ledger:  service.NewLedgerService(store, events.Nop{}, service.DefaultPolicy()),
		Queries: service.NewQueryService(store),
	})
	h.Register()
	return &opsBot{bot: b, api: api}
}

// send runs a command through the bot and returns the reply text.
func (o *opsBot) send(t *testing.T, text string) string {
	t.Helper()
	o.bot.ProcessUpdate(context.Background(), &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   1,
			Text: text,
			Chat: models.Chat{ID: 42, Type: "private"},
			From: &models.User{ID: 7},
		},
	})
	return o.api.last(t)
}

func TestBareAccountCommandShowsUsage(t *testing.T) {
	o := newOpsBot(t)
	assert.Equal(t, "Usage: /account <id>", o.send(t, "/account"))
	assert.Contains(t, o.send(t, "/account 99"), "Not found")
}

func TestLedgerWriteCommands(t *testing.T) {
	o := newOpsBot(t)

	assert.Contains(t, o.send(t, "/open 7 checking"), "*Account 1*")
	assert.Contains(t, o.send(t, "/open 8 savings"), "*Account 2*")

	assert.Contains(t, o.send(t, "/deposit 1 100"), "*Account 1 balance:* 100.00")
	assert.Contains(t, o.send(t, "/withdraw 1 30 atm"), "*Account 1 balance:* 70.00")

	reply := o.send(t, "/transfer 1 2 20.50 rent")
	assert.Contains(t, reply, "Transferred 20.50 from 1 to 2")
	assert.Contains(t, reply, "*Account 1 balance:* 49.50")
	assert.Contains(t, reply, "*Account 2 balance:* 20.50")

	assert.Contains(t, o.send(t, "/delete 2"), "Invalid input")
	assert.Contains(t, o.send(t, "/open 9 checking"), "*Account 3*")
	assert.Equal(t, "🗑 Account 3 deleted.", o.send(t, "/delete 3"))

	assert.Contains(t, o.send(t, "/accounts"), "*Accounts* (2)")
}

func TestLedgerWriteCommandErrors(t *testing.T) {
	o := newOpsBot(t)
	o.send(t, "/open 7 checking")

	assert.Equal(t, "Usage: /deposit <id> <amount> <note>", o.send(t, "/deposit 1"))
	assert.Equal(t, "❌ invalid amount \"ten\"", o.send(t, "/deposit 1 ten"))
	assert.Contains(t, o.send(t, "/deposit 1 1e30"), "Invalid input")
	assert.Contains(t, o.send(t, "/withdraw 1 500"), "overdraft limit exceeded")
	assert.Contains(t, o.send(t, "/transfer 1 1 5"), "Invalid input")
	assert.Equal(t, "Usage: /delete <id>", o.send(t, "/delete"))
}
