package registrations

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// exportColumns is the fixed header order relied on by downstream
// spreadsheets. Do not reorder.
var exportColumns = []string{
	"RegistrationNumber", "StudentName", "Branch", "Section", "TeamName", "TeamSize", "TeamMembers",
}

// ExportCSV serializes registrations in list order as RFC-4180 CSV.
// Individual registrations leave the team columns empty. Fields with
// commas, quotes or newlines are quoted and escaped by encoding/csv, so
// free-text member details survive a round trip through any standard
// CSV parser.
func ExportCSV(regs []Registration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, r := range regs {
		row := []string{r.RegistrationNumber, r.Name, r.Branch, r.Section, "", "", ""}
		if r.IsTeam() {
			row[4] = r.TeamName
			row[5] = strconv.Itoa(r.TeamSize)
			row[6] = memberSummary(r.Members)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename follows the registrations_<event-title>.csv convention.
func ExportFilename(eventTitle string) string {
	title := strings.TrimSpace(eventTitle)
	if title == "" {
		title = "event"
	}
	return fmt.Sprintf("registrations_%s.csv", title)
}

func memberSummary(members []Member) string {
	parts := make([]string, 0, len(members))
	for _, m := range members {
		parts = append(parts, fmt.Sprintf("%s (%s, %s %s)", m.Name, m.RegistrationNumber, m.Branch, m.Section))
	}
	return strings.Join(parts, "; ")
}
