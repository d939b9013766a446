// Package server provides a Gin HTTP server that runs as a component.
//
// The engine is mounted on a net/http ServeMux wrapped with h2c so plain
// handlers and HTTP/2 cleartext clients share the port:
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
//	srv.Engine().POST("/events", handler)
//	_ = app.RegisterComponent(server.NewComponent(srv))
package server
