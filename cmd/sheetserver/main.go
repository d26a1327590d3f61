// Command sheetserver runs the spreadsheet engine behind the gin HTTP
// surface defined in package api, backed by a bbolt database.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/berejant/sheetengine/api"
	"github.com/berejant/sheetengine/bboltstore"
	"github.com/berejant/sheetengine/notify"
)

// ExitCodeMainError is the process exit code used when RunApp fails.
const ExitCodeMainError = 1

const listenAddr = ":8080"

func main() {
	os.Exit(HandleExitError(os.Stderr, RunApp()))
}

// RunApp builds the store, notifier, and router and blocks serving HTTP
// until the listener fails.
func RunApp() error {
	gin.SetMode(gin.ReleaseMode)

	store, err := bboltstore.Open(os.Getenv("DATABASE_FILEPATH"))
	if err != nil {
		return err
	}
	defer store.Close()

	dispatcher := notify.NewDispatcher()
	dispatcher.Start()
	defer dispatcher.Close()

	controller := api.NewController(store, dispatcher)
	router := api.SetupRouter(controller)

	return http.ListenAndServe(listenAddr, router)
}

// HandleExitError prints err to errStream, if non-nil, and returns the
// process exit code that should follow.
func HandleExitError(errStream io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintln(errStream, err)
		return ExitCodeMainError
	}
	return 0
}
