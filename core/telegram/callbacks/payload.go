package callbacks

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadInt64 parses callback payload as int64.
func PayloadInt64(c tele.Context) (int64, error) {
	p := strings.TrimSpace(CallbackPayload(c))
	return strconv.ParseInt(p, 10, 64)
}

// Data encodes unique and payload the way telebot does for inline buttons.
func Data(unique string, payload ...string) string {
	if len(payload) == 0 {
		return "\f" + unique
	}
	return "\f" + unique + "|" + strings.Join(payload, "|")
}
