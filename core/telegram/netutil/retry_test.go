package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "timeout", err: timeoutErr{}, want: true},
		{name: "dial", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: true},
		{name: "reset", err: fmt.Errorf("read: %w", syscall.ECONNRESET), want: true},
		{name: "server error", err: &tele.Error{Code: 502, Description: "Bad Gateway"}, want: true},
		{name: "flood", err: tele.FloodError{RetryAfter: 3}, want: true},
		{name: "bad request", err: &tele.Error{Code: 400, Description: "message to delete not found"}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(tt.err))
		})
	}
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, RetryAfter(tele.FloodError{RetryAfter: 3}))
	assert.Zero(t, RetryAfter(errors.New("x")))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "timeout", Classify(context.DeadlineExceeded))
	assert.Equal(t, "dial", Classify(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(t, "http_4xx", Classify(&tele.Error{Code: 403}))
	assert.Equal(t, "http_5xx", Classify(errors.New("telegram: internal (500)")))
	assert.Equal(t, "flood", Classify(tele.FloodError{RetryAfter: 1}))
	assert.Equal(t, "unknown", Classify(errors.New("boom")))
}

func TestRedactToken(t *testing.T) {
	msg := `Post "https://api.telegram.org/bot123456:AA-bb_CC/sendMessage": EOF`
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": EOF`, RedactToken(msg))
}
