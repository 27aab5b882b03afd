package conduit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Logger is the minimal logging surface the library writes to. Call sites
// pass a message followed by alternating key-value pairs, slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the values the auth core needs at construction time. The
// signing secret is injected once at startup and treated as immutable; it
// must never be logged.
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() string
	GetTokenExpiration() time.Duration
	GetListenAddr() string
	GetDatabaseDSN() string
}

// UserStore is the collaborator the interceptor and the login/registration
// flows use to resolve identities. Lookups return ErrIdentityNotFound when
// no matching row exists; any other error is a transport failure.
type UserStore interface {
	// GetByUsername fetches the read-only identity projection of a user.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByEmail fetches a user together with its stored password digest.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println("[ERR] CONDUIT " + withAttrs(msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println("[INF] CONDUIT " + withAttrs(msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println("[DBG] CONDUIT " + withAttrs(msg, args))
}

// withAttrs renders the key-value pairs after the message, key=value,
// space separated. A dangling key with no value renders as key=(missing).
func withAttrs(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)

	for i := 0; i < len(args); i += 2 {
		b.WriteByte(' ')
		fmt.Fprint(&b, args[i])
		b.WriteByte('=')
		if i+1 < len(args) {
			fmt.Fprint(&b, args[i+1])
		} else {
			b.WriteString("(missing)")
		}
	}

	return b.String()
}
