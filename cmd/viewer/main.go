package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"party-lab/domain"
	"party-lab/observability"
)

// A small read-only console for operators: server counters, and the
// scoreboard of one session when -session is given.
func main() {
	addr := flag.String("addr", "http://localhost:7777", "Base URL of the game server")
	sessionID := flag.String("session", "", "Session id to inspect")
	token := flag.String("token", "", "Bearer token of any registered user")
	flag.Parse()

	printStats(*addr)

	if *sessionID != "" {
		printSession(*addr, *sessionID, *token)
	}
}

func fetch(url, token string, out any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printStats(addr string) {
	var report observability.Report
	if err := fetch(addr+"/debug/stats", "", &report); err != nil {
		log.Fatalf("Failed to fetch stats: %v", err)
	}

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("  ====== Server stats ======"))

	table := newTable([]string{"Metric", "Value"})
	c := report.Counters
	for _, row := range [][2]string{
		{"Users registered", strconv.FormatUint(c.UsersRegistered, 10)},
		{"Users removed", strconv.FormatUint(c.UsersRemoved, 10)},
		{"Sessions created", strconv.FormatUint(c.SessionsCreated, 10)},
		{"Sessions deleted", strconv.FormatUint(c.SessionsDeleted, 10)},
		{"Rounds created", strconv.FormatUint(c.RoundsCreated, 10)},
		{"Rounds resolved", strconv.FormatUint(c.RoundsResolved, 10)},
		{"Answers submitted", strconv.FormatUint(c.AnswersSubmitted, 10)},
		{"Events published", strconv.FormatUint(c.EventsPublished, 10)},
		{"Process RSS (bytes)", strconv.FormatUint(report.Process.RSSBytes, 10)},
		{"Process CPU (%)", fmt.Sprintf("%.2f", report.Process.CPUPercent)},
		{"Sampled at", report.Process.SampledAt},
	} {
		table.Append(row[:])
	}
	table.Render()
}

func printSession(addr, id, token string) {
	var snap domain.SessionSnapshot
	if err := fetch(addr+"/sessions/"+id, token, &snap); err != nil {
		log.Fatalf("Failed to fetch session %s: %v", id, err)
	}

	header := fmt.Sprintf("  ====== Session %s (%s) ======", snap.ID, snap.State)
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))
	if snap.Round != nil {
		fmt.Printf("Round %d (%s), %d options, resolved=%t\n",
			snap.Round.Number, snap.Round.Kind, len(snap.Round.Options), snap.Round.Resolved)
	}

	sort.SliceStable(snap.Users, func(i, j int) bool {
		return score(snap.Users[i]) > score(snap.Users[j])
	})

	table := newTable([]string{"Rank", "ID", "Name", "Ready", "Score"})
	for i, u := range snap.Users {
		ready := "-"
		if u.Ready != nil {
			ready = strconv.FormatBool(*u.Ready)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			string(u.ID),
			u.Name,
			ready,
			strconv.Itoa(score(u)),
		})
	}
	table.Render()
}

func score(u domain.UserSnapshot) int {
	if u.Score == nil {
		return 0
	}
	return *u.Score
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
