// Package control exposes a strip over a small websocket endpoint so colors
// can be pushed from another process or machine. It is caller-side plumbing
// around the pixel buffer; the encoding path knows nothing about it.
package control

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tiko09/rpi5-ws2812-rgbw/model"
)

// Command is one control message. Cmd selects the action; unused fields are
// ignored.
//
//	{"cmd":"set_all","r":255,"g":64,"b":0}
//	{"cmd":"pixel","index":3,"r":0,"g":0,"b":255,"w":128}
//	{"cmd":"brightness","value":0.5}
//	{"cmd":"show"} {"cmd":"clear"}
type Command struct {
	Cmd   string  `json:"cmd"`
	Index int     `json:"index"`
	R     uint8   `json:"r"`
	G     uint8   `json:"g"`
	B     uint8   `json:"b"`
	W     uint8   `json:"w"`
	Value float64 `json:"value"`
}

type reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type State struct {
	mu       sync.Mutex
	strip    *model.Strip
	upgrader websocket.Upgrader
}

func NewState(s *model.Strip) *State {
	return &State{
		strip: s,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WithStrip runs fn with the strip held under the same lock that serializes
// control commands. The strip itself does no locking, so every writer —
// including a local animation loop — must go through here once a control
// endpoint is attached.
func (st *State) WithStrip(fn func(*model.Strip) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return fn(st.strip)
}

// HandleControlWS upgrades the connection and applies commands until the
// peer goes away. Commands from all connections are serialized on one lock;
// the strip itself does no locking.
func (st *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := st.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("control upgrade failed")
		return
	}
	defer conn.Close()
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("control client connected")

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			log.Info().Err(err).Msg("control client gone")
			return
		}
		res := reply{OK: true}
		if err := st.apply(cmd); err != nil {
			res = reply{OK: false, Error: err.Error()}
		}
		if err := conn.WriteJSON(res); err != nil {
			return
		}
	}
}

func (st *State) apply(cmd Command) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	switch cmd.Cmd {
	case "set_all":
		st.strip.SetAll(model.RGBW(cmd.R, cmd.G, cmd.B, cmd.W))
		return st.strip.Show()
	case "pixel":
		return st.strip.SetPixel(cmd.Index, model.RGBW(cmd.R, cmd.G, cmd.B, cmd.W))
	case "brightness":
		st.strip.SetBrightness(cmd.Value)
		return nil
	case "show":
		return st.strip.Show()
	case "clear":
		return st.strip.Clear()
	default:
		return errUnknownCommand(cmd.Cmd)
	}
}

type errUnknownCommand string

func (e errUnknownCommand) Error() string {
	return "unknown command: " + string(e)
}

// HandleHealth reports strip geometry and liveness.
func (st *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	st.mu.Lock()
	body := map[string]any{
		"ok":         true,
		"led_count":  st.strip.NumPixels(),
		"rgbw":       st.strip.HasWhite(),
		"brightness": st.strip.Brightness(),
	}
	st.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
