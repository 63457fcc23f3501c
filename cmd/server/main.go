package main

import (
    "flag"
    "log"
    "net/http"

    "github.com/jaminalder/tictactoe-negamax/internal/app"
    "github.com/jaminalder/tictactoe-negamax/internal/web"
)

func main() {
    addr := flag.String("addr", ":8080", "listen address")
    delay := flag.String("ai-delay", "random", "computer move pacing: none, random, or fixed")
    flag.Parse()

    svc := app.NewService()
    switch *delay {
    case "none":
        svc.SetDelayPolicy(app.DelayNone)
    case "fixed":
        svc.SetDelayPolicy(app.DelayFixed)
    default:
        svc.SetDelayPolicy(app.DelayRandom)
    }

    handler := web.NewServer(svc)
    log.Println("Server started on", *addr)
    log.Fatal(http.ListenAndServe(*addr, handler))
}
