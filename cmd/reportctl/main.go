// Command reportctl fetches a report from a running API instance and renders
// it as a table. Authentication reuses an existing session token, obtainable
// by logging in and reading the session_token cookie.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

func main() {
	baseURL := flag.String("base-url", envOrDefault("API_BASE_URL", "http://localhost:8080"), "API base URL")
	report := flag.String("report", "sales", "report type: sales, inventory, orders, or products")
	token := flag.String("token", os.Getenv("SESSION_TOKEN"), "session token value (defaults to SESSION_TOKEN env)")
	timeout := flag.Duration("timeout", 15*time.Second, "request timeout")
	flag.Parse()

	if strings.TrimSpace(*token) == "" {
		log.Fatal("a session token is required: pass -token or set SESSION_TOKEN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rows, err := fetchReport(ctx, *baseURL, *report, *token)
	if err != nil {
		log.Fatalf("failed to fetch %s report: %v", *report, err)
	}
	if len(rows) == 0 {
		fmt.Println("report is empty")
		return
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header(rows[0])
	for _, row := range rows[1:] {
		if err := table.Append(row); err != nil {
			log.Fatalf("failed to render report: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		log.Fatalf("failed to render report: %v", err)
	}
}

func fetchReport(ctx context.Context, baseURL, report, token string) ([][]string, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/reports/" + report + "/export"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return csv.NewReader(resp.Body).ReadAll()
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
