// Command mock_places serves a fake Places text search endpoint for local
// geoprobe runs. Behavior is controlled per process: always OK, a fixed
// upstream status, or HTTP-level throttling after a request budget.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "Listening port")
	status := flag.String("status", "OK", "Upstream status label returned in the body (OK, REQUEST_DENIED, INVALID_REQUEST, OVER_QUERY_LIMIT)")
	results := flag.Int("results", 5, "Number of result stubs in OK responses")
	httpAfter := flag.Int("http-429-after", 0, "Return HTTP 429 after this many requests (0 disables)")
	forbidden := flag.Bool("forbidden", false, "Return HTTP 403 for every request")
	maxJitter := flag.Duration("max-jitter", 50*time.Millisecond, "Upper bound for random response delay")
	flag.Parse()

	var served int64

	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		if *maxJitter > 0 {
			time.Sleep(time.Duration(rand.Int63n(int64(*maxJitter))))
		}

		if *forbidden {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if *httpAfter > 0 && atomic.AddInt64(&served, 1) > int64(*httpAfter) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		body := map[string]any{"status": *status}
		switch *status {
		case "OK":
			stubs := make([]map[string]any, *results)
			for i := range stubs {
				stubs[i] = map[string]any{
					"name":              fmt.Sprintf("%s result %d", r.URL.Query().Get("query"), i+1),
					"formatted_address": "Av. Libertador Bernardo O'Higgins, Santiago",
				}
			}
			body["results"] = stubs
		case "REQUEST_DENIED":
			body["error_message"] = "The provided API key is invalid."
		}
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Printf("encode response: %v", err)
		}
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("mock places server listening on %s (status=%s)", addr, *status)
	log.Fatal(http.ListenAndServe(addr, mux))
}
