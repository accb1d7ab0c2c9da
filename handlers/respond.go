// handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wittycoder91/DeliveryBackend/models"
	"github.com/wittycoder91/DeliveryBackend/pkg/delivery"
)

func writeJSON(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: message, Data: data})
}

func writeList(w http.ResponseWriter, data interface{}, total int64) {
	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Success!", Data: data, TotalCount: &total})
}

// writeFailure always answers 200; clients key off the success flag,
// not the HTTP status.
func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, models.APIResponse{Success: false, Message: message})
}

// writeOutcome finishes a state-transition request. A NotifyError
// means the transition committed and only the fan-out failed, so the
// response stays successful with a warning attached.
func writeOutcome(w http.ResponseWriter, err error, message string, data interface{}) {
	if err == nil {
		writeSuccess(w, message, data)
		return
	}
	if delivery.IsNotifyError(err) {
		writeJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: message,
			Data:    data,
			Warning: "notification delivery failed",
		})
		return
	}
	writeError(w, err)
}

// writeError translates the error taxonomy into the uniform envelope.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, delivery.ErrNotFound):
		writeFailure(w, "Delivery not found.")
	case errors.Is(err, delivery.ErrInvalidInput):
		writeFailure(w, err.Error())
	case errors.Is(err, delivery.ErrSequencingConflict):
		writeFailure(w, "Purchase order assignment conflicted, please retry.")
	default:
		writeFailure(w, "API error: "+err.Error())
	}
}
