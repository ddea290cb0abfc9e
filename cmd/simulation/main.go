package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/fatih/color"
)

// Simplified DTOs for the script
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type registerData struct {
	Token string `json:"token"`
	State struct {
		SessionId string `json:"session_id"`
		Threads   []struct {
			Id         string `json:"id"`
			ClientName string `json:"client_name"`
			Unread     int    `json:"unread"`
		} `json:"threads"`
	} `json:"state"`
}

var (
	baseURL = flag.String("base", "http://localhost:3000/api", "API base URL")
	role    = flag.String("role", "client", "client or manager")
)

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(out.String())
}

// Request helper
func sendRequest(method, path, token, contentType string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequest(method, *baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func sendJSON(method, path, token string, payload interface{}) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	return sendRequest(method, path, token, "application/json", body)
}

func must(resp *http.Response, body []byte, err error) []byte {
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 300 {
		color.Red("Failed: %s", resp.Status)
		prettyPrint(body)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	return body
}

// listen prints every realtime event pushed to the session.
func listen(token string) {
	wsURL := strings.Replace(*baseURL, "http", "ws", 1) + "/ws?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		color.Red("Websocket dial failed: %v", err)
		return
	}
	go func() {
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				color.Magenta("[WS] closed: %v", err)
				return
			}
			color.Magenta("[WS] %s", string(data))
		}
	}()
}

func main() {
	flag.Parse()
	color.Cyan("🚀 Starting chat session simulation (%s)\n", *role)

	// 1. Variant
	color.Yellow("\n1. Get Variant")
	prettyPrint(must(sendJSON("GET", "/chat/v1/variant", "", nil)))

	// 2. Register
	color.Yellow("\n2. Register")
	body := must(sendJSON("POST", "/chat/v1/register", "", map[string]string{
		"role":        *role,
		"first_name":  "Иван",
		"last_name":   "Петров",
		"middle_name": "Сергеевич",
	}))
	var env envelope
	var reg registerData
	_ = json.Unmarshal(body, &env)
	if err := json.Unmarshal(env.Data, &reg); err != nil || reg.Token == "" {
		color.Red("Unexpected register response")
		prettyPrint(body)
		os.Exit(1)
	}
	color.Green("Session %s with %d thread(s)", reg.State.SessionId, len(reg.State.Threads))

	listen(reg.Token)

	// 3. Send message
	color.Yellow("\n3. Send Message")
	prettyPrint(must(sendJSON("POST", "/chat/v1/messages", reg.Token, map[string]string{
		"text": "Добрый день! Подскажите по договору.",
	})))

	// 4. Switch to files, then upload (should raise a notification)
	color.Yellow("\n4. Switch Section to files")
	must(sendJSON("PUT", "/chat/v1/section", reg.Token, map[string]string{"section": "files"}))

	color.Yellow("\n5. Upload File")
	form := &bytes.Buffer{}
	writer := multipart.NewWriter(form)
	part, _ := writer.CreateFormFile("file", "simulation.txt")
	_, _ = part.Write([]byte(strings.Repeat("lorem ipsum ", 200)))
	_ = writer.Close()
	prettyPrint(must(sendRequest("POST", "/chat/v1/files", reg.Token, writer.FormDataContentType(), form)))

	// 6. Manager inbox walk
	if len(reg.State.Threads) > 1 {
		last := reg.State.Threads[len(reg.State.Threads)-1]
		color.Yellow("\n6. Select Thread %s (%d unread)", last.ClientName, last.Unread)
		must(sendJSON("PUT", "/chat/v1/threads/"+last.Id+"/select", reg.Token, nil))
	}

	// 7. Final state
	color.Yellow("\n7. Get State")
	prettyPrint(must(sendJSON("GET", "/chat/v1/state", reg.Token, nil)))

	// Let a presence tick or two arrive
	time.Sleep(6 * time.Second)

	color.Yellow("\n8. Close Session")
	must(sendJSON("DELETE", "/chat/v1/session", reg.Token, nil))

	time.Sleep(500 * time.Millisecond)
	color.Cyan("\n✅ Simulation finished")
}
