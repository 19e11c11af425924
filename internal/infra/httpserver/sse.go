package httpserver

import (
    "encoding/json"
    "fmt"
    "net/http"
    "time"
)

// GET /v1/feed/stream
// Server-sent events: an initial snapshot, then a fresh snapshot on every
// feed update. The stream ends when the client disconnects.
func (r *Router) handleFeedStream(w http.ResponseWriter, req *http.Request) {
    flusher, ok := w.(http.Flusher)
    if !ok {
        http.Error(w, "streaming unsupported", http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")

    updates, cancel := r.feedSvc.Subscribe()
    defer cancel()

    writeSnapshot := func(items any) bool {
        data, err := json.Marshal(items)
        if err != nil {
            return false
        }
        if _, err := fmt.Fprintf(w, "event: feed\ndata: %s\n\n", data); err != nil {
            return false
        }
        flusher.Flush()
        return true
    }

    if !writeSnapshot(r.feedSvc.Snapshot()) {
        return
    }

    heartbeat := time.NewTicker(15 * time.Second)
    defer heartbeat.Stop()

    for {
        select {
        case <-req.Context().Done():
            return
        case items := <-updates:
            if !writeSnapshot(items) {
                return
            }
        case <-heartbeat.C:
            if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
                return
            }
            flusher.Flush()
        }
    }
}
