package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type admins []int64

func (a admins) IsAdmin(id int64) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

type recordingReporter struct {
	errs []error
}

func (r *recordingReporter) LogError(_ context.Context, err error, _ string) {
	r.errs = append(r.errs, err)
}

func messageFrom(userID int64, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			Text: text,
			From: &models.User{ID: userID},
			Chat: models.Chat{ID: userID},
		},
	}
}

func TestAdminOnly(t *testing.T) {
	var (
		called   bool
		operator int64
	)
	next := func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		called = true
		operator, _ = GetOperator(ctx)
	}
	h := AdminOnly(admins{10, 20})(next)

	h(context.Background(), nil, messageFrom(30, "/freeze 1"))
	assert.False(t, called)

	h(context.Background(), nil, messageFrom(20, "/freeze 1"))
	assert.True(t, called)
	assert.Equal(t, int64(20), operator)

	called = false
	h(context.Background(), nil, &models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 10}, Data: "hist_1_2"}})
	assert.True(t, called)

	called = false
	h(context.Background(), nil, &models.Update{})
	assert.False(t, called)
}

func TestRecoverReportsPanic(t *testing.T) {
	reporter := &recordingReporter{}
	h := Recover(reporter)(func(context.Context, *bot.Bot, *models.Update) {
		panic("nil account")
	})

	require.NotPanics(t, func() {
		h(context.Background(), nil, messageFrom(1, "/account 1"))
	})
	require.Len(t, reporter.errs, 1)
	assert.Contains(t, reporter.errs[0].Error(), "nil account")
}

func TestRecoverWithoutReporter(t *testing.T) {
	h := Recover(nil)(func(context.Context, *bot.Bot, *models.Update) {
		panic(errors.New("boom"))
	})
	assert.NotPanics(t, func() { h(context.Background(), nil, messageFrom(1, "")) })
}

func TestCommandOf(t *testing.T) {
	assert.Equal(t, "/history", commandOf(messageFrom(1, "/history 5 2")))
	assert.Equal(t, "", commandOf(messageFrom(1, "hello")))
	assert.Equal(t, "acct_freeze_3", commandOf(&models.Update{CallbackQuery: &models.CallbackQuery{Data: "acct_freeze_3"}}))
}
