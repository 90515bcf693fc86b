package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recovery-cli/internal/authority"
	"github.com/sells-group/recovery-cli/internal/compliance"
	"github.com/sells-group/recovery-cli/internal/config"
	"github.com/sells-group/recovery-cli/internal/matcher"
	"github.com/sells-group/recovery-cli/internal/outreach"
	"github.com/sells-group/recovery-cli/internal/store"
	"github.com/sells-group/recovery-cli/pkg/intent"
	"github.com/sells-group/recovery-cli/pkg/notify"
	"github.com/sells-group/recovery-cli/pkg/transport"
)

// env holds the wired application components for one command invocation.
type env struct {
	Store     store.Store
	Matcher   *matcher.Matcher
	Gate      *compliance.Gate
	Engine    *outreach.Engine
	Authority *authority.Service
	Notifier  *notify.Webhook
}

// initEnv opens the store, runs migrations, and wires the engine.
func initEnv(ctx context.Context) (*env, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate")
	}

	gate := compliance.NewGate(cfg.Compliance)
	messenger := transport.NewClient(
		cfg.Transport.URL,
		cfg.Transport.Token,
		time.Duration(cfg.Transport.TimeoutSecs)*time.Second,
	)
	classifier := buildClassifier(cfg.Intent)

	engine := outreach.NewEngine(st, messenger, classifier, gate, cfg.Outreach)

	return &env{
		Store:     st,
		Matcher:   matcher.New(cfg.Matcher),
		Gate:      gate,
		Engine:    engine,
		Authority: authority.NewService(st, engine),
		Notifier:  notify.NewWebhook(cfg.Notify.WebhookURL),
	}, nil
}

func (e *env) Close() {
	e.Store.Close() //nolint:errcheck
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "", "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func buildClassifier(c config.IntentConfig) outreach.Classifier {
	if c.Provider == "webhook" && c.URL != "" {
		return intent.NewWebhook(c.URL, time.Duration(c.TimeoutSecs)*time.Second)
	}
	return intent.NewKeyword()
}
