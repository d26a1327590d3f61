package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunApp(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f, tmpFileErr := os.CreateTemp("", "db_*.db")
		assert.NoError(t, tmpFileErr)
		defer os.Remove(f.Name())

		_ = os.Setenv("DATABASE_FILEPATH", f.Name())
		defer os.Unsetenv("DATABASE_FILEPATH")

		var appErr error
		go func() {
			appErr = RunApp()
		}()
		runtime.Gosched()

		var err error
		var res *http.Response
		for i := 0; i < 3; i++ {
			if appErr != nil {
				t.Errorf("RunApp() error = %v", appErr)
				break
			}

			time.Sleep(50 * time.Millisecond)
			client := http.Client{Timeout: 2 * time.Second}
			res, err = client.Get("http://localhost:8080/healthcheck")
			if err == nil {
				break
			}
		}

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		body, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, "health", string(body))
	})

	t.Run("fail", func(t *testing.T) {
		_ = os.Setenv("DATABASE_FILEPATH", "/nonexistent-directory/db.db")
		defer os.Unsetenv("DATABASE_FILEPATH")

		err := RunApp()
		assert.Error(t, err)
	})
}

func TestHandleExitError(t *testing.T) {
	var out bytes.Buffer

	testCases := map[error]int{
		errors.New("dummy error"): ExitCodeMainError,
		nil:                       0,
	}

	for err, expectedCode := range testCases {
		out.Reset()
		code := HandleExitError(&out, err)

		assert.Equal(t, expectedCode, code)
		if err == nil {
			assert.Empty(t, out.String())
		} else {
			assert.Contains(t, out.String(), err.Error())
		}
	}
}
