package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mkarpis/railbird/internal/announce"
	"github.com/mkarpis/railbird/internal/bot"
	"github.com/mkarpis/railbird/internal/clock"
	"github.com/mkarpis/railbird/internal/events"
	"github.com/mkarpis/railbird/internal/gateway"
	"github.com/mkarpis/railbird/internal/models"
	"github.com/mkarpis/railbird/internal/notify"
	"github.com/mkarpis/railbird/internal/structure"
	"github.com/mkarpis/railbird/internal/tournament"
	"github.com/mkarpis/railbird/internal/tournament/snapshot"
)

type Services struct {
	Store     *tournament.App
	Announcer *announce.Announcer
	Clock     *clock.LevelClock
	Runner    *clock.Runner
	Board     *gateway.Board
	Gateway   *gateway.Gateway
	Session   *bot.Session
	NATS      *nats.Conn

	closers []io.Closer
}

func setupServices(config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Snapshot layer → Store → Dispatcher/Publisher → Announcer → Clock → Gateway/Bot

	snapshotter, closer, err := setupSnapshotter(config)
	if err != nil {
		return nil, err
	}

	store := tournament.NewApp(snapshotter, clockwork.NewRealClock())

	var (
		nc        *nats.Conn
		sender    notify.Sender
		publisher events.Publisher
		transport bot.ChatTransport
	)
	if config.NATS.URL != "" {
		nc, err = connectNATS(config.NATS.URL)
		if err != nil {
			return nil, err
		}
		sender = notify.NewNATSSender(nc, config.NATS.SubjectPrefix+".dealers")
		publisher = events.NewNATSPublisher(nc, config.NATS.SubjectPrefix)
		transport = bot.NewNATSTransport(nc, config.NATS.SubjectPrefix)
	} else {
		log.Warn().Msg("NATS_URL not set, using log-only transports")
		sender = notify.LogSender{}
		publisher = events.LogPublisher{}
		transport = logTransport{}
	}

	dispatcher := notify.NewDispatcher(sender)
	announcer := announce.NewAnnouncer(store, dispatcher, publisher)

	levels, err := structure.LoadFile(config.Tournament.StructureFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load blind structure: %w", err)
	}
	levelClock := clock.New(levels)
	runner := clock.NewRunner(levelClock, clockwork.NewRealClock())

	board := gateway.NewBoard(gateway.DefaultBoardConfig())
	gw := gateway.New(store, announcer, levelClock, publisher, board)

	session := bot.NewSession(store, announcer, transport, config.Tournament.Tables)

	services := &Services{
		Store:     store,
		Announcer: announcer,
		Clock:     levelClock,
		Runner:    runner,
		Board:     board,
		Gateway:   gw,
		Session:   session,
		NATS:      nc,
	}
	if closer != nil {
		services.closers = append(services.closers, closer)
	}
	wireRunnerCallbacks(services, publisher)
	return services, nil
}

// wireRunnerCallbacks pushes every tick to connected boards and logs a
// heartbeat event each time the countdown crosses a minute boundary.
func wireRunnerCallbacks(s *Services, publisher events.Publisher) {
	s.Runner.OnTick = func(state models.ClockState) {
		s.Board.Broadcast(events.EventTypeClockTick, events.ClockTickPayload{
			CurrentLevelIndex: state.CurrentLevelIndex,
			RemainingMs:       state.RemainingMs,
			Running:           state.Running,
			Finished:          state.Finished,
		})
	}
	s.Runner.OnHeartbeat = func(remaining time.Duration) {
		state := s.Clock.State()
		log.Info().
			Int("level_index", state.CurrentLevelIndex).
			Dur("remaining", remaining).
			Msg("level clock heartbeat")
		if err := publisher.Publish(context.Background(), events.EventTypeClockTick, events.ClockTickPayload{
			CurrentLevelIndex: state.CurrentLevelIndex,
			RemainingMs:       state.RemainingMs,
			Running:           state.Running,
			Finished:          state.Finished,
		}); err != nil {
			log.Error().Err(err).Msg("failed to publish heartbeat event")
		}
	}
}

func setupSnapshotter(config *Config) (tournament.Snapshotter, io.Closer, error) {
	switch config.Persistence.Backend {
	case "postgres":
		dbConfig := databaseConfigFromEnv()
		store, err := snapshot.NewPGStore(dbConfig.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create postgres snapshot store: %w", err)
		}
		log.Info().
			Str("host", dbConfig.Host).
			Str("database", dbConfig.Database).
			Msg("using postgres snapshot store")
		return store, store, nil
	case "file", "":
		log.Info().Str("path", config.Persistence.File).Msg("using file snapshot store")
		return snapshot.NewFileStore(config.Persistence.File), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence backend: %q", config.Persistence.Backend)
	}
}

func connectNATS(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info().Str("url", url).Msg("connected to NATS")
	return nc, nil
}

// logTransport stands in for the chat service when NATS is not
// configured; replies go to the log.
type logTransport struct{}

func (logTransport) SendMessage(ctx context.Context, chatRef, text string) error {
	log.Info().Str("chat_ref", chatRef).Str("text", text).Msg("chat reply")
	return nil
}

func (logTransport) SendKeyboard(ctx context.Context, chatRef, text string, rows [][]bot.Button) error {
	log.Info().Str("chat_ref", chatRef).Str("text", text).Int("rows", len(rows)).Msg("chat keyboard")
	return nil
}

func (logTransport) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	log.Info().Str("callback_id", callbackID).Str("text", text).Bool("alert", alert).Msg("chat callback answer")
	return nil
}

func (s *Services) Close() {
	if s.NATS != nil {
		s.NATS.Close()
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close service resource")
		}
	}
}
