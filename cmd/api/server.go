package main

import (
	"fmt"
	"net/http"
	"time"

	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
)

func (app *app) serve() error {
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", app.config.Server.Port),
		// clerkhttp resolves session claims for every request; the
		// per-route RequireAuth middleware decides who needs them.
		Handler:           clerkhttp.WithHeaderAuthorization()(app.routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
