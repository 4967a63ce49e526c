// preview-server serves a browser preview of an animation: rendered
// frames stream over a websocket as binary ARGB buffers, and pointer
// events flow back from the page into the player's state machine.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	dotlottie "dotlottie-go"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local preview tool; the page is served by this process.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pointerMessage is what the page sends back.
type pointerMessage struct {
	Kind string  `json:"kind"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
}

type server struct {
	file    string
	width   uint32
	height  uint32
	machine string
}

func main() {
	file := flag.String("file", "", "Path to a .json or .lottie file")
	addr := flag.String("addr", ":8090", "Listen address")
	size := flag.Uint("size", 400, "Canvas size in pixels")
	machine := flag.String("state-machine", "", "State machine id to start")
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: preview-server -file <path-to-animation> [-addr :8090]")
		os.Exit(1)
	}

	s := &server{file: *file, width: uint32(*size), height: uint32(*size), machine: *machine}

	http.HandleFunc("/", s.servePage)
	http.HandleFunc("/ws", s.serveFrames)

	fmt.Printf("Preview of %s on http://localhost%s\n", *file, *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// serveFrames owns one player per connection; the connection goroutine is
// the player's single thread.
func (s *server) serveFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	config := dotlottie.DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true

	player, err := dotlottie.NewDotLottiePlayer(config)
	if err != nil {
		return
	}
	defer player.Destroy()

	loaded := false
	if strings.HasSuffix(s.file, ".lottie") {
		loaded = player.LoadDotLottiePath(s.file, s.width, s.height)
	} else {
		loaded = player.LoadAnimationPath(s.file, s.width, s.height)
	}
	if !loaded {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error": "load failed"}`))
		return
	}
	if s.machine != "" && player.StateMachineLoad(s.machine) {
		player.StateMachineStart()
	}

	// Pointer events arrive on a side channel and are drained on the
	// render loop, keeping all player access on this goroutine.
	pointers := make(chan pointerMessage, 64)
	go func() {
		defer close(pointers)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg pointerMessage
			if json.Unmarshal(data, &msg) == nil {
				select {
				case pointers <- msg:
				default:
				}
			}
		}
	}()

	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:], s.width)
	binary.LittleEndian.PutUint32(header[4:], s.height)
	if err := conn.WriteMessage(websocket.BinaryMessage, header); err != nil {
		return
	}

	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for range ticker.C {
		drained := false
		for !drained {
			select {
			case msg, ok := <-pointers:
				if !ok {
					return
				}
				switch msg.Kind {
				case "down":
					player.PostPointerDown(msg.X, msg.Y)
				case "up":
					player.PostPointerUp(msg.X, msg.Y)
				case "move":
					player.PostPointerMove(msg.X, msg.Y)
				}
			default:
				drained = true
			}
		}

		player.Tick()

		buffer := player.Buffer()
		payload := make([]byte, len(buffer)*4)
		for i, pixel := range buffer {
			binary.LittleEndian.PutUint32(payload[i*4:], pixel)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			return
		}
	}
}

const previewPage = `<!DOCTYPE html>
<html>
<head><title>dotlottie preview</title></head>
<body style="background:#222;display:flex;justify-content:center;align-items:center;height:100vh;margin:0">
<canvas id="view"></canvas>
<script>
const canvas = document.getElementById("view");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.binaryType = "arraybuffer";
let w = 0, h = 0, ctx = null;
ws.onmessage = (ev) => {
  const data = new DataView(ev.data);
  if (w === 0) {
    w = data.getUint32(0, true);
    h = data.getUint32(4, true);
    canvas.width = w; canvas.height = h;
    ctx = canvas.getContext("2d");
    return;
  }
  const img = ctx.createImageData(w, h);
  for (let i = 0; i < w * h; i++) {
    const argb = data.getUint32(i * 4, true);
    img.data[i * 4] = (argb >> 16) & 0xff;
    img.data[i * 4 + 1] = (argb >> 8) & 0xff;
    img.data[i * 4 + 2] = argb & 0xff;
    img.data[i * 4 + 3] = (argb >> 24) & 0xff;
  }
  ctx.putImageData(img, 0, 0);
};
const send = (kind) => (ev) => {
  const rect = canvas.getBoundingClientRect();
  ws.send(JSON.stringify({kind, x: ev.clientX - rect.left, y: ev.clientY - rect.top}));
};
canvas.addEventListener("mousedown", send("down"));
canvas.addEventListener("mouseup", send("up"));
canvas.addEventListener("mousemove", send("move"));
</script>
</body>
</html>`

func (s *server) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, previewPage)
}
