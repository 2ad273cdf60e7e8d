package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/omoarwwa-coder/ayman-ai/services"
)

type RealtimeController struct {
	RT  *services.RealtimeHub
	App *services.App
}

func NewRealtimeController(rt *services.RealtimeHub, app *services.App) *RealtimeController {
	return &RealtimeController{RT: rt, App: app}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /api/ws streams state.changed snapshots and allergy alerts.
func (rc *RealtimeController) StateWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{Conn: conn}

	ev := rc.App.StateEvent()
	ev.CreatedAt = time.Now()
	if err := conn.WriteJSON(ev); err != nil {
		_ = conn.Close()
		return
	}
	rc.RT.Register(cl)

	// ping to keep connections alive through proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := cl.Ping(); err != nil {
				rc.RT.Unregister(cl)
				return
			}
		}
	}()

	// the read loop ends when the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
