package socket_io

import (
	"Excusas/services/socket_io/handlers"
	socketio_types "Excusas/services/socket_io/types"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	eio_log "github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type Options struct {
	FrontendURL string
	Debug       bool
}

// Start mounts the socket.io endpoint on router and routes every client
// event to deps.
func Start(router *gin.Engine, sio *socketio_types.SocketServer, deps handlers.Deps, opts Options) {
	eio_log.DEBUG = opts.Debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      opts.FrontendURL,
		Credentials: true,
	})

	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		sio.AddConnection(client)
		log.Printf("[CONNECT] Usuario conectado: %s (%d conexiones)", client.Id(), sio.ConnectionCount())

		session := socketio_types.NewClientSession(client)
		handlers.Register(session, func(event string, handler func(args ...interface{})) {
			client.On(event, handler)
		}, deps, sio.RemoveConnection)
	})

	handler := gin.WrapH(sio.Sio_server.ServeHandler(c))
	router.POST("/socket.io/*f", handler)
	router.GET("/socket.io/*f", handler)

	log.Println("Socket server started")
}
