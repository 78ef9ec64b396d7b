package tibber

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// graphql-transport-ws message types, per the protocol spec.
const (
	wsConnectionInit = "connection_init"
	wsConnectionAck  = "connection_ack"
	wsPing           = "ping"
	wsPong           = "pong"
	wsSubscribe      = "subscribe"
	wsNext           = "next"
	wsError          = "error"
	wsComplete       = "complete"
)

const wsSubprotocol = "graphql-transport-ws"

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LiveMeasurement opens a subscription on the home's live measurement
// stream, returns the first reading, and tears the connection down.
// The whole exchange is bounded by the context deadline, or by the
// client timeout when the context has none. The caller is expected to
// have checked that the home has live metering enabled; subscribing to
// a home without it fails with an upstream error.
func (c *Client) LiveMeasurement(ctx context.Context, homeID string) (*LiveMeasurement, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.timeout,
		Subprotocols:     []string{wsSubprotocol},
	}
	header := http.Header{"User-Agent": []string{c.userAgent}}

	conn, resp, err := dialer.DialContext(ctx, c.wsURL, header)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
		}
		return nil, fmt.Errorf("tibber: subscription dial failed: %w", err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("tibber: subscription setup failed: %w", err)
	}

	send := func(msg wsMessage) error {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		return conn.WriteJSON(msg)
	}

	initPayload, _ := json.Marshal(map[string]string{"token": c.token})
	if err := send(wsMessage{Type: wsConnectionInit, Payload: initPayload}); err != nil {
		return nil, fmt.Errorf("tibber: subscription init failed: %w", err)
	}
	if err := c.awaitAck(conn, send); err != nil {
		return nil, err
	}

	subPayload, err := json.Marshal(graphQLRequest{
		Query:     liveMeasurementSubscription,
		Variables: map[string]any{"homeId": homeID},
	})
	if err != nil {
		return nil, fmt.Errorf("tibber: encoding subscription: %w", err)
	}
	if err := send(wsMessage{ID: "1", Type: wsSubscribe, Payload: subPayload}); err != nil {
		return nil, fmt.Errorf("tibber: subscribe failed: %w", err)
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return nil, fmt.Errorf("tibber: reading live measurement: %w", err)
		}

		switch msg.Type {
		case wsPing:
			if err := send(wsMessage{Type: wsPong}); err != nil {
				return nil, fmt.Errorf("tibber: reading live measurement: %w", err)
			}
		case wsNext:
			measurement, err := decodeLiveMeasurement(msg.Payload)
			if err != nil {
				return nil, err
			}
			// One reading is all we need; end the subscription.
			_ = send(wsMessage{ID: "1", Type: wsComplete})
			return measurement, nil
		case wsError:
			var errs []graphQLError
			if err := json.Unmarshal(msg.Payload, &errs); err != nil || len(errs) == 0 {
				return nil, fmt.Errorf("tibber: subscription rejected")
			}
			return nil, upstreamError(errs)
		case wsComplete:
			return nil, fmt.Errorf("tibber: subscription completed without data")
		}
	}
}

// awaitAck consumes messages until the server acknowledges the
// connection, answering keepalive pings along the way.
func (c *Client) awaitAck(conn *websocket.Conn, send func(wsMessage) error) error {
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("tibber: awaiting connection ack: %w", err)
		}
		switch msg.Type {
		case wsConnectionAck:
			return nil
		case wsPing:
			if err := send(wsMessage{Type: wsPong}); err != nil {
				return fmt.Errorf("tibber: awaiting connection ack: %w", err)
			}
		default:
			return fmt.Errorf("tibber: unexpected %q before connection ack", msg.Type)
		}
	}
}

func decodeLiveMeasurement(payload []byte) (*LiveMeasurement, error) {
	var data struct {
		Data struct {
			LiveMeasurement *LiveMeasurement `json:"liveMeasurement"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if data.Data.LiveMeasurement == nil {
		return nil, fmt.Errorf("%w: payload carried no measurement", ErrMalformed)
	}
	return data.Data.LiveMeasurement, nil
}
