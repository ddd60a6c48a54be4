// Command avaprobe replays a handful of chat turns against a running server
// and reports per-turn latency. Useful for smoke-testing a deployment.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sort"
	"strings"
	"time"
)

type options struct {
	baseURL        string
	username       string
	password       string
	signup         bool
	turns          int
	interTurnDelay time.Duration
	texts          []string
	verbose        bool
}

var defaultUtterances = []string{
	"Hi, how was your day?",
	"Tell me something you remember about me.",
	"What should we do this weekend?",
	"Say goodnight.",
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "avaprobe: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "avaprobe: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var cfg options
	var textsRaw string
	var interTurnMS int

	flag.StringVar(&cfg.baseURL, "base-url", "http://127.0.0.1:8080", "AVA base URL")
	flag.StringVar(&cfg.username, "username", "expert", "account username")
	flag.StringVar(&cfg.password, "password", "expert99.", "account password")
	flag.BoolVar(&cfg.signup, "signup", false, "create the account instead of logging in")
	flag.IntVar(&cfg.turns, "turns", 4, "number of turns to replay")
	flag.IntVar(&interTurnMS, "inter-turn-ms", 200, "delay between turns in milliseconds")
	flag.StringVar(&textsRaw, "texts", "", "utterances separated by '|' (optional)")
	flag.BoolVar(&cfg.verbose, "verbose", true, "print replay progress")
	flag.Parse()

	cfg.baseURL = strings.TrimRight(strings.TrimSpace(cfg.baseURL), "/")
	if cfg.baseURL == "" {
		return options{}, fmt.Errorf("base-url is required")
	}
	if cfg.turns <= 0 {
		return options{}, fmt.Errorf("turns must be > 0")
	}
	cfg.interTurnDelay = time.Duration(interTurnMS) * time.Millisecond

	cfg.texts = defaultUtterances
	if strings.TrimSpace(textsRaw) != "" {
		var texts []string
		for _, t := range strings.Split(textsRaw, "|") {
			if t = strings.TrimSpace(t); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) == 0 {
			return options{}, fmt.Errorf("texts contained no usable utterances")
		}
		cfg.texts = texts
	}
	return cfg, nil
}

func run(cfg options) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	client := &http.Client{Jar: jar, Timeout: 60 * time.Second}

	authPath := "/v1/auth/login"
	if cfg.signup {
		authPath = "/v1/auth/signup"
	}
	if err := postJSON(client, cfg.baseURL+authPath, map[string]string{
		"username": cfg.username,
		"password": cfg.password,
	}, nil); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if cfg.verbose {
		fmt.Printf("authenticated as %s\n", cfg.username)
	}

	var latencies []time.Duration
	for i := 0; i < cfg.turns; i++ {
		text := cfg.texts[i%len(cfg.texts)]
		started := time.Now()

		var reply struct {
			Response  string  `json:"response"`
			AudioFile *string `json:"audio_file"`
		}
		err := postJSON(client, cfg.baseURL+"/v1/chat/message", map[string]string{
			"human_input": text,
		}, &reply)
		if err != nil {
			return fmt.Errorf("turn %d: %w", i+1, err)
		}
		elapsed := time.Since(started)
		latencies = append(latencies, elapsed)

		if cfg.verbose {
			audio := "no audio"
			if reply.AudioFile != nil {
				audio = "audio at " + *reply.AudioFile
			}
			fmt.Printf("turn %d (%s): %q (%s)\n", i+1, elapsed.Round(time.Millisecond), trim(reply.Response, 60), audio)
		}
		time.Sleep(cfg.interTurnDelay)
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	fmt.Printf("turns=%d min=%s median=%s max=%s\n",
		len(latencies),
		latencies[0].Round(time.Millisecond),
		latencies[len(latencies)/2].Round(time.Millisecond),
		latencies[len(latencies)-1].Round(time.Millisecond),
	)
	return nil
}

func postJSON(client *http.Client, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	res, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func trim(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
