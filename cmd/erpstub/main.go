package main

import (
	"flag"
	"log"
	"net/http"

	"procure-desk/internal/erptest"
)

// erpstub runs the in-memory ERP backend so the client can be exercised
// without a live deployment. Data resets on every restart.
func main() {
	addr := flag.String("addr", ":8234", "listen address")
	flag.Parse()

	srv := erptest.NewServer(nil)

	log.Printf("[ERPStub] listening on %s (users: asha/asha123, ravi/ravi123)", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatalf("[ERPStub] server stopped: %v", err)
	}
}
