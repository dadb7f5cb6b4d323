package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/directory"
	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/rank"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin enforcement happens in the CORS layer for the REST routes;
	// the token check in requireAuth covers the socket.
	CheckOrigin: func(*http.Request) bool { return true },
}

// filterFrame is one criteria update sent by the client.
type filterFrame struct {
	Query      string `json:"q"`
	Domain     string `json:"domain"`
	Popularity string `json:"popularity"`
}

const writeTimeout = 10 * time.Second

// handleTrendingLive upgrades to a websocket and streams re-filtered
// trending lists as the client types. Updates are debounced so a burst
// of keystrokes produces a single recompute.
func (s *Server) handleTrendingLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("server: websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	session := directory.NewFilterSession(s.service, s.debounce)
	defer session.Close()

	// Send the unfiltered list immediately so the view has content
	// before the first keystroke.
	if err := writeEntries(conn, s.service.Trending()); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var frame filterFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			session.Update(rank.FilterCriteria{
				Query:      frame.Query,
				Domain:     frame.Domain,
				Popularity: model.PopularityTier(frame.Popularity),
			})
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case entries := <-session.Results():
			if err := writeEntries(conn, entries); err != nil {
				return
			}
		}
	}
}

func writeEntries(conn *websocket.Conn, entries []model.TrendingEntry) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
	return conn.WriteJSON(map[string]any{"entries": entries})
}
