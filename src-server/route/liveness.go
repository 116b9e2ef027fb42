package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
	"warden/src-server/utils"
)

const greeting = "Bot is running! 🤖"

type statusResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

// Liveness lets an external supervisor check the process is up. None of
// these touch Discord.
func Liveness(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(greeting))
	})

	muxer.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, statusResponse{
			Status:    "online",
			Message:   "Discord bot is active",
			Timestamp: unixSeconds(time.Now()),
		})
	})

	muxer.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, healthResponse{
			Status: "healthy",
			Uptime: as.GetUptime().Seconds(),
		})
	})
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("can't write response", "error", err)
	}
}
