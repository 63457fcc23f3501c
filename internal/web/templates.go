package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"
    "github.com/jaminalder/tictactoe-negamax/internal/app"
    "github.com/jaminalder/tictactoe-negamax/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(p domain.Player) string {
            switch p { case domain.PlayerOne: return "X"; case domain.PlayerTwo: return "O"; default: return "" }
        },
        "onLine": func(line []domain.Move, r, c int) bool {
            for _, m := range line {
                if m.Row == r && m.Col == c {
                    return true
                }
            }
            return false
        },
        "status": func(gs app.GameState) string {
            switch {
            case gs.Over && gs.Result == domain.PlayerOneWin:
                return "X wins!"
            case gs.Over && gs.Result == domain.PlayerTwoWin:
                return "O wins!"
            case gs.Over:
                return "It's a tie"
            case gs.Turn == domain.PlayerOne:
                return "X to move"
            default:
                return "O to move"
            }
        },
    }
}

func loadTemplates() *templates {
    // Minimal inline templates; can be replaced by file loading later.
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>TicTacToe</h1>
<form action="/game" method="post">
  <label><input type="radio" name="mode" value="two" checked> Two player</label>
  <label><input type="radio" name="mode" value="one"> One player vs computer</label>
  <label>Play as <select name="side"><option value="one">X</option><option value="two">O</option></select></label>
  <button>Create</button>
</form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.State.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{status .State}}</div>
  {{$s := .State}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      <form hx-post="/game/{{$s.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit"{{if onLine $s.Line $r $c}} class="win"{{end}}>{{cellSymbol (index (index $s.Board $r) $c)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{$s.ID}}/undo" hx-target="#board" hx-swap="outerHTML" method="post"><button>Undo</button></form>
  <form hx-post="/game/{{$s.ID}}/restart" hx-target="#board" hx-swap="outerHTML" method="post"><button>Restart</button></form>
</div>
`

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}
