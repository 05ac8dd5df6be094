package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/ledgercore/internal/domain"
	tg "github.com/set-night/ledgercore/internal/telegram"
	"github.com/shopspring/decimal"
)

const (
	cbFreeze   = "acct_freeze_"
	cbUnfreeze = "acct_unfreeze_"
	cbHistory  = "hist_"

	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04"
)

var errUsage = errors.New("usage")

// parseID parses a positive account or transaction id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// commandArgs returns the arguments following the command word.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// parseHistoryArgs parses "<id> [page]".
func parseHistoryArgs(args []string) (int64, int, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	page := 1
	if len(args) == 2 {
		page, err = strconv.Atoi(args[1])
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", args[1])
		}
	}
	return id, page, nil
}

// parseStatementArgs parses "<id> <from> <to>". Dates are UTC days and the
// range covers the whole of the last day.
func parseStatementArgs(args []string) (int64, time.Time, time.Time, error) {
	if len(args) != 3 {
		return 0, time.Time{}, time.Time{}, errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}
	from, err := time.Parse(dateLayout, args[1])
	if err != nil {
		return 0, time.Time{}, time.Time{}, fmt.Errorf("invalid date %q", args[1])
	}
	to, err := time.Parse(dateLayout, args[2])
	if err != nil {
		return 0, time.Time{}, time.Time{}, fmt.Errorf("invalid date %q", args[2])
	}
	return id, from, to.Add(24*time.Hour - time.Nanosecond), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

// parseOpenArgs parses "<owner> <type>".
func parseOpenArgs(args []string) (domain.CreateAccountRequest, error) {
	if len(args) != 2 {
		return domain.CreateAccountRequest{}, errUsage
	}
	owner, err := parseID(args[0])
	if err != nil {
		return domain.CreateAccountRequest{}, err
	}
	return domain.CreateAccountRequest{OwnerID: owner, Type: strings.ToUpper(args[1])}, nil
}

// parseMovementArgs parses "<id> <amount> [note...]".
func parseMovementArgs(args []string) (domain.MovementRequest, error) {
	if len(args) < 2 {
		return domain.MovementRequest{}, errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return domain.MovementRequest{}, err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return domain.MovementRequest{}, err
	}
	return domain.MovementRequest{
		AccountID:   id,
		Amount:      amount,
		Description: strings.Join(args[2:], " "),
	}, nil
}

// parseTransferArgs parses "<from> <to> <amount> [note...]".
func parseTransferArgs(args []string) (domain.TransferRequest, error) {
	if len(args) < 3 {
		return domain.TransferRequest{}, errUsage
	}
	from, err := parseID(args[0])
	if err != nil {
		return domain.TransferRequest{}, err
	}
	to, err := parseID(args[1])
	if err != nil {
		return domain.TransferRequest{}, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return domain.TransferRequest{}, err
	}
	return domain.TransferRequest{
		SenderID:    from,
		ReceiverID:  to,
		Amount:      amount,
		Description: strings.Join(args[3:], " "),
	}, nil
}

// parseCallbackID extracts the id from "<prefix><id>".
func parseCallbackID(data, prefix string) (int64, error) {
	return parseID(strings.TrimPrefix(data, prefix))
}

// parseHistoryCallback extracts id and page from "hist_<id>_<page>".
func parseHistoryCallback(data string) (int64, int, error) {
	parts := strings.Split(strings.TrimPrefix(data, cbHistory), "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid history callback %q", data)
	}
	return parseHistoryArgs(parts)
}

func formatAccount(acct domain.Account) string {
	status := "✅ active"
	if acct.Frozen {
		status = "🧊 frozen"
	}
	return fmt.Sprintf("🏦 *Account %d*\n\n"+
		"*Number:* `%s`\n"+
		"*Type:* %s\n"+
		"*Owner:* `%d`\n"+
		"*Balance:* %s\n"+
		"*Status:* %s\n"+
		"*Created:* %s",
		acct.ID,
		acct.Number,
		tg.EscapeMarkdown(acct.Type),
		acct.OwnerID,
		acct.Balance.StringFixed(domain.MoneyScale),
		status,
		acct.CreatedAt.UTC().Format(timeLayout),
	)
}

func formatAccountList(accounts []domain.Account) string {
	if len(accounts) == 0 {
		return "No accounts."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏦 *Accounts* (%d)\n\n", len(accounts)))
	for _, a := range accounts {
		mark := ""
		if a.Frozen {
			mark = " 🧊"
		}
		sb.WriteString(fmt.Sprintf("`%d` #%s %s%s\n", a.ID, a.Number, a.Balance.StringFixed(domain.MoneyScale), mark))
	}
	return sb.String()
}

// formatMovement renders the result of a deposit or withdrawal.
func formatMovement(acct domain.Account, tx domain.TransactionView) string {
	verb := "Deposited"
	if tx.Kind == domain.TxKindDebit {
		verb = "Withdrew"
	}
	text := fmt.Sprintf("✅ %s %s, entry `%d`\n*Account %d balance:* %s",
		verb,
		tx.Amount.StringFixed(domain.MoneyScale),
		tx.ID,
		acct.ID,
		acct.Balance.StringFixed(domain.MoneyScale),
	)
	if acct.Frozen {
		text += "\n🧊 The account is frozen."
	}
	return text
}

func formatTransfer(res domain.TransferResult) string {
	return fmt.Sprintf("✅ Transferred %s from %d to %d\n"+
		"*Reference:* `%s`\n"+
		"*Account %d balance:* %s\n"+
		"*Account %d balance:* %s",
		res.Debit.Amount.StringFixed(domain.MoneyScale),
		res.Sender.ID,
		res.Receiver.ID,
		res.Debit.Reference,
		res.Sender.ID,
		res.Sender.Balance.StringFixed(domain.MoneyScale),
		res.Receiver.ID,
		res.Receiver.Balance.StringFixed(domain.MoneyScale),
	)
}

func formatEntry(v domain.TransactionView) string {
	sign := ""
	switch v.Direction {
	case domain.DirectionIn:
		sign = "+"
	case domain.DirectionOut:
		sign = "-"
	}
	return fmt.Sprintf("`%d` %s %s %s%s %s",
		v.ID,
		v.CreatedAt.UTC().Format(timeLayout),
		v.Kind,
		sign,
		v.Amount.StringFixed(domain.MoneyScale),
		tg.EscapeMarkdown(v.Description),
	)
}

func formatHistory(accountID int64, page domain.Page[domain.TransactionView]) string {
	if page.Total == 0 {
		return fmt.Sprintf("Account %d has no ledger entries.", accountID)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📜 *History of account %d* (%d entries)\n\n", accountID, page.Total))
	for _, v := range page.Items {
		sb.WriteString(formatEntry(v))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatStatement(st domain.Statement) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧾 *Statement for account %d* (#%s)\n", st.Account.ID, st.Account.Number))
	sb.WriteString(fmt.Sprintf("%s to %s\n\n", st.From.UTC().Format(dateLayout), st.To.UTC().Format(dateLayout)))
	for _, v := range st.Transactions {
		sb.WriteString(formatEntry(v))
		sb.WriteString("\n")
	}
	if len(st.Transactions) == 0 {
		sb.WriteString("No entries in this period.\n")
	}
	sb.WriteString(fmt.Sprintf("\n*In:* %s\n*Out:* %s\n*Balance now:* %s",
		st.TotalIn.StringFixed(domain.MoneyScale),
		st.TotalOut.StringFixed(domain.MoneyScale),
		st.Account.Balance.StringFixed(domain.MoneyScale),
	))
	return sb.String()
}

func formatTransaction(v domain.TransactionView) string {
	side := func(id *int64) string {
		if id == nil {
			return "-"
		}
		return fmt.Sprintf("`%d`", *id)
	}
	return fmt.Sprintf("🧾 *Entry %d*\n\n"+
		"*Kind:* %s\n"+
		"*Amount:* %s\n"+
		"*Sender:* %s\n"+
		"*Receiver:* %s\n"+
		"*Reference:* `%s`\n"+
		"*Time:* %s\n"+
		"*Description:* %s",
		v.ID,
		v.Kind,
		v.Amount.StringFixed(domain.MoneyScale),
		side(v.SenderAccountID),
		side(v.ReceiverAccountID),
		v.Reference,
		v.CreatedAt.UTC().Format(timeLayout),
		tg.EscapeMarkdown(v.Description),
	)
}

func accountKeyboard(acct domain.Account) *models.InlineKeyboardMarkup {
	toggle := tg.InlineButton("🧊 Freeze", fmt.Sprintf("%s%d", cbFreeze, acct.ID))
	if acct.Frozen {
		toggle = tg.InlineButton("🔓 Unfreeze", fmt.Sprintf("%s%d", cbUnfreeze, acct.ID))
	}
	return tg.InlineKeyboard(
		tg.ButtonRow(toggle, tg.InlineButton("📜 History", fmt.Sprintf("%s%d_1", cbHistory, acct.ID))),
	)
}

func historyKeyboard(accountID int64, page domain.Page[domain.TransactionView]) *models.InlineKeyboardMarkup {
	if page.TotalPages() <= 1 {
		return nil
	}
	return tg.InlineKeyboard(tg.PaginationRow(page.Page, page.TotalPages(), fmt.Sprintf("%s%d", cbHistory, accountID)))
}

// errorText maps a ledger error to the reply shown to the operator.
// Infrastructure failures are not echoed.
func errorText(err error) string {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return "❌ Not found: " + err.Error()
	case domain.KindInvalidInput:
		return "❌ Invalid input: " + err.Error()
	case domain.KindConcurrency, domain.KindUnavailable:
		return "⏳ The ledger is busy. Try again."
	case "":
		return "❌ Internal error."
	default:
		return "❌ " + err.Error()
	}
}
