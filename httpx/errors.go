package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/formbench/formbench/client"
	"github.com/formbench/formbench/log"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// RelayAPIError surfaces a failed upstream API call: API errors keep their
// status and human-readable message, anything else is a plain 502.
func RelayAPIError(w http.ResponseWriter, code string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		LogStatusMsg(w, apiErr.Status, log.DebugLevel, code, "%s", apiErr.Message)
		return
	}
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
}
