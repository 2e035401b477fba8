package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/km-arc/go-factory/framework/app"
	"github.com/km-arc/go-factory/framework/container"
)

// ── Sample services ───────────────────────────────────────────────────────────

type Clock interface{ Now() string }

type wallClock struct{ id uuid.UUID }

func (c *wallClock) Now() string { return "wall clock " + c.id.String() }

type Session struct {
	ID    uuid.UUID
	Clock *container.Injected[Clock]
}

type Mailer struct {
	ID      uuid.UUID
	Session *container.WeakLazyInjected[*Session]
}

func main() {
	application := app.New() // loads .env automatically
	application.Boot()
	c := application.Container

	sessionScope := c.NewCachedScope("session")

	clock := container.NewFactory(c, "clock", c.Cached(), func() Clock {
		return &wallClock{id: uuid.New()}
	})
	session := container.NewFactory(c, "session", sessionScope, func() *Session {
		return &Session{ID: uuid.New(), Clock: container.Inject(clock)}
	})
	mailer := container.NewFactory(c, "mailer", nil, func() *Mailer {
		return &Mailer{ID: uuid.New(), Session: container.InjectWeak(session)}
	})
	greeting := container.NewParameterFactory(c, "greeting", nil, func(name string) string {
		return "hello " + name
	})

	log := application.Log()
	m := mailer.Get()
	if owner, ok := m.Session.Value(); ok {
		log.Info("mailer bound to session", "mailer", m.ID, "session", owner.ID, "clock", owner.Clock.Value().Now())
	}
	log.Info("greeting", "text", greeting.Call("factory"))

	// DELETE /scopes/session on the inspector drops the session. Once it is
	// collected, the mailer's next access gets a fresh one from the scope.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
