// Package audit records security and content events to the system log
// without holding up the request that caused them.
package audit

import (
	"context"
	"sync"
	"time"

	"gorm.io/datatypes"

	"vortexgames/internal/db"
)

// Actions written to system_logs.action.
const (
	ActionLoginSuccess = "LOGIN_SUCCESS"
	ActionLoginFail    = "LOGIN_FAIL"
	ActionLogout       = "LOGOUT"
	ActionKeyGenerate  = "KEY_GENERATE"
	ActionKeyRevoke    = "KEY_REVOKE"
	ActionGameAdd      = "GAME_ADD"
	ActionGameEdit     = "GAME_EDIT"
	ActionGameDelete   = "GAME_DELETE"
	ActionUserBan      = "USER_BAN"
	ActionServerStart  = "SERVER_START"
)

const writeTimeout = 5 * time.Second

// Sink persists one log row. *db.Store satisfies it.
type Sink interface {
	AppendLog(ctx context.Context, entry *db.SystemLog) error
}

// Entry is one event to record. Actor and RemoteIP end up in the meta column
// and are omitted when empty.
type Entry struct {
	Action   string
	Details  string
	Actor    string
	RemoteIP string
}

// Hooks observe the outcome of each write. Both are optional.
type Hooks struct {
	Written func(Entry)
	Failed  func(Entry, error)
}

// Logger appends entries on background goroutines. A failed write is
// reported to Hooks.Failed and otherwise dropped.
type Logger struct {
	sink  Sink
	hooks Hooks
	wg    sync.WaitGroup
}

func New(sink Sink, hooks Hooks) *Logger {
	return &Logger{sink: sink, hooks: hooks}
}

// Log schedules e for writing and returns immediately.
func (l *Logger) Log(e Entry) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.write(e)
	}()
}

// Wait blocks until every entry passed to Log so far has been written or
// has failed.
func (l *Logger) Wait() {
	l.wg.Wait()
}

func (l *Logger) write(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	row := &db.SystemLog{Action: e.Action, Details: e.Details}
	if meta := e.meta(); len(meta) > 0 {
		row.Meta = meta
	}

	if err := l.sink.AppendLog(ctx, row); err != nil {
		if l.hooks.Failed != nil {
			l.hooks.Failed(e, err)
		}
		return
	}
	if l.hooks.Written != nil {
		l.hooks.Written(e)
	}
}

func (e Entry) meta() datatypes.JSONMap {
	m := datatypes.JSONMap{}
	if e.Actor != "" {
		m["actor"] = e.Actor
	}
	if e.RemoteIP != "" {
		m["ip"] = e.RemoteIP
	}
	return m
}
