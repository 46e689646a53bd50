package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"nhooyr.io/websocket"

	"github.com/keydash/keydash/internal/race"
	"github.com/keydash/keydash/internal/wire"
)

// handleWS upgrades the connection and runs the realtime channel: a
// writer goroutine drains the connection's broker subscription while
// the read loop dispatches inbound events to the registry. Each event
// is handled to completion, broadcast included, before the next one is
// read, which keeps per-session ordering.
func handleWS(logger *slog.Logger, reg *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case data := <-ch:
					if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
						logger.Debug("websocket write failed", "error", err)
						cancel()
						return
					}
				}
			}
		}()

		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "error", err)
				return
			}
			dispatch(ctx, logger, reg, ch, msg)
		}
	}
}

// dispatch decodes one inbound event and routes it. Malformed payloads
// and admission failures are reported to the sending connection only;
// nothing here may take down the server.
func dispatch(ctx context.Context, logger *slog.Logger, reg *Registry, ch chan []byte, msg []byte) {
	var ev wire.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		reply(ch, wire.EventError, "malformed event")
		return
	}

	switch ev.Event {
	case wire.EventCreateSession:
		var p wire.CreateSession
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.PlayerID == "" || p.Name == "" {
			reply(ch, wire.EventError, race.ErrMissingParameters.Error())
			return
		}
		id := reg.Create(race.Participant{ID: p.PlayerID, Name: p.Name, Avatar: p.Avatar, Profile: p.Profile}, ch)
		send(ch, wire.MustEncode(wire.EventSessionCreated, wire.SessionCreated{SessionID: id}))

	case wire.EventJoinSession:
		var p wire.JoinSession
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.SessionID == "" || p.PlayerID == "" || p.Name == "" {
			reply(ch, wire.EventJoinError, race.ErrMissingParameters.Error())
			return
		}
		err := reg.Join(p.SessionID, race.Participant{ID: p.PlayerID, Name: p.Name, Avatar: p.Avatar, Profile: p.Profile}, ch)
		if err != nil {
			reply(ch, wire.EventJoinError, err.Error())
		}

	case wire.EventStartSession:
		var p wire.StartSession
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.SessionID == "" {
			reply(ch, wire.EventError, race.ErrMissingParameters.Error())
			return
		}
		reg.Start(p.SessionID, p.Words)

	case wire.EventUpdateProgress:
		var p wire.UpdateProgress
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.SessionID == "" || p.PlayerID == "" {
			reply(ch, wire.EventError, race.ErrMissingParameters.Error())
			return
		}
		reg.UpdateProgress(p.SessionID, p.PlayerID, p.Percent)

	case wire.EventSubmitResult:
		var p wire.SubmitResult
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.SessionID == "" || p.Result.PlayerID == "" {
			reply(ch, wire.EventError, race.ErrMissingParameters.Error())
			return
		}
		if err := reg.SubmitResult(ctx, p.SessionID, p.Result); err != nil {
			// Persistence failure: the submitter alone learns about it;
			// the room already received the raw result list.
			reply(ch, wire.EventError, "saving race results failed")
		}

	default:
		logger.Debug("unknown event ignored", "event", ev.Event)
	}
}

func reply(ch chan []byte, event, reason string) {
	send(ch, wire.MustEncode(event, wire.ErrorPayload{Reason: reason}))
}
