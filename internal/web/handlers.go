package web

import (
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/tictactoe-negamax/internal/app"
    "github.com/jaminalder/tictactoe-negamax/internal/domain"
)

type handlers struct {
    svc *app.Service
    tpl *templates
}

type boardData struct {
    State app.GameState
    Error string
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", boardData{State: gs, Error: errMsg})
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    mode := app.TwoPlayer
    if r.Form.Get("mode") == "one" {
        mode = app.OnePlayer
    }
    side := domain.PlayerOne
    if r.Form.Get("side") == "two" {
        side = domain.PlayerTwo
    }
    gs, err := h.svc.CreateGame(mode, side)
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := boardData{State: *gs}

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, ""))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    ri, _ := strconv.Atoi(r.Form.Get("r"))
    ci, _ := strconv.Atoi(r.Form.Get("c"))
    gs, err := h.svc.Play(id, pid, ri, ci)
    h.writeBoard(w, r, id, gs, err)
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Undo(id, pid)
    h.writeBoard(w, r, id, gs, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Restart(id, pid)
    h.writeBoard(w, r, id, gs, err)
}

func (h *handlers) writeBoard(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        if gs == nil {
            if g, ok := h.svc.Get(id); ok {
                gs = g
            }
        }
        switch {
        case errors.Is(err, app.ErrNotYourTurn):
            errMsg = "Not your turn"
        case errors.Is(err, app.ErrNotAPlayer):
            errMsg = "You are a spectator"
        case errors.Is(err, app.ErrOccupied):
            errMsg = "Cell is occupied"
        case errors.Is(err, app.ErrOutOfBounds):
            errMsg = "Out of bounds"
        case errors.Is(err, app.ErrGameOver):
            errMsg = "Game is over"
        default:
            errMsg = "Invalid move"
        }
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, errMsg))
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, _ := h.svc.Subscribe(ctx, id)
    // heartbeat ticker
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            // Emit board event
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", b)
            flusher.Flush()
        }
    }
}
