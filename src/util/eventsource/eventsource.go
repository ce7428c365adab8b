// Package eventsource implements the server side of the text/event-stream
// protocol over a hijacked HTTP connection.
package eventsource

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// EventSource is an open event stream towards a single client.
type EventSource struct {
	conn net.Conn
}

// Begin hijacks the connection behind the response writer and emits the
// stream preamble. The connection is closed when the request context ends.
func Begin(w http.ResponseWriter, r *http.Request) (*EventSource, error) {
	hijacker, ok := w.(http.Hijacker)
	if !ok {
		return nil, fmt.Errorf("could not start event source: connection is not hijackable")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Transfer-Encoding", "identity")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	conn, buf, err := hijacker.Hijack()
	if err != nil {
		return nil, fmt.Errorf("could not start event source: %v", err)
	}
	buf.Flush()

	es := &EventSource{conn: conn}
	go func() {
		<-r.Context().Done()
		conn.Close()
	}()
	// An initial comment line lets proxies and the client commit to the
	// stream before the first real event.
	fmt.Fprint(conn, ": ok\n\n")
	return es, nil
}

// Event sends one named event. Multi-line bodies become consecutive data
// fields per the protocol.
func (es *EventSource) Event(event, body string) {
	var frame strings.Builder
	fmt.Fprintf(&frame, "event: %s\n", event)
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(&frame, "data: %s\n", line)
	}
	frame.WriteString("\n")
	es.conn.Write([]byte(frame.String()))
}

// EventJSON sends one named event with a JSON-encoded body.
func (es *EventSource) EventJSON(event string, body interface{}) {
	b, err := json.Marshal(body)
	if err != nil {
		log.Errorf("Could not marshal event %q: %v", event, err)
		return
	}
	es.Event(event, string(b))
}
