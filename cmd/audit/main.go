// Command audit prints the session audit trail of a relay's BadgerDB directory.
// It opens the store read-only, so it can run next to a live relay.
package main

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

func main() {
	dbPath := flag.String("db", lo.CoalesceOrEmpty(os.Getenv("BADGER_FILEPATH"), database.DefaultPath), "Path to badger DB")
	limit := flag.Int("limit", 100, "Maximum number of events, newest first (0 for all)")
	nickname := flag.String("nickname", "", "Only show events of this nickname")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	events, _, err := repositories.NewSessionAuditRepository(db, slog.Default()).Recent(*limit, nil)
	if err != nil {
		log.Fatal(err)
	}
	if *nickname != "" {
		events = lo.Filter(events, func(evt domain.SessionEvent, _ int) bool {
			return evt.Nickname == *nickname
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Kind", "Nickname", "Remote", "Reason", "ID"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, evt := range events {
		displayID := evt.ID.String()[:8]
		table.Append([]string{
			evt.At.Local().Format("2006-01-02 15:04:05"),
			string(evt.Kind),
			evt.Nickname,
			evt.Remote,
			evt.Reason,
			displayID,
		})
	}
	table.Render()
	fmt.Printf("%d events\n", len(events))
}
