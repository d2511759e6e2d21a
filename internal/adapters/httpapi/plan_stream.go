package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/alesfranek-maf/uwapi/internal/application/logging"
)

// upgrader builds the websocket upgrader guarded by the server origin policy
func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin admits requests without an Origin header (non-browser clients),
// same-origin requests, and origins on the allow list. "*" admits any origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// streamRequest is one plan request sent over the socket
type streamRequest struct {
	Unit     string `json:"unit"`
	Quantity int    `json:"qty"`
	Race     string `json:"race"`
}

// streamReply answers one streamRequest
type streamReply struct {
	Request streamRequest `json:"request"`
	*PlanView
	Error string `json:"error,omitempty"`
}

// handlePlanStream keeps a websocket open and answers every JSON plan
// request with a plan view, in order
func (s *Server) handlePlanStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Log(logging.LevelWarn, "Websocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		var req streamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Log(logging.LevelDebug, "Plan stream closed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return
		}

		if req.Quantity == 0 {
			req.Quantity = 1
		}
		reply := streamReply{Request: req}
		parsed, err := s.parsePlanRequest(req.Unit, "", req.Race)
		if err == nil {
			parsed.Quantity = req.Quantity
			reply.PlanView, err = s.resolve(ctx, parsed)
		}
		if err != nil {
			reply.Error = err.Error()
		}

		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
