package main

import (
	"chat-relay/domain"
	"chat-relay/internal"
	"chat-relay/repositories"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"data/badger"`
	// INSPECT_COLOURS enables colorized headers
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Config error: ", err)
	}

	dbPath := flag.String("db", config.BadgerFilepath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	a := flag.String("a", "", "First participant of a conversation")
	b := flag.String("b", "", "Second participant of a conversation")
	queues := flag.Bool("queues", false, "Show offline queue depth per recipient")
	flag.Parse()

	// BypassLockGuard allows reading while the relay holds the lock
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	switch {
	case *a != "" && *b != "":
		err = printConversation(config, db, domain.Identity(*a), domain.Identity(*b))
	case *queues:
		err = printQueueDepth(config, db)
	default:
		err = printPrefix(config, db, *prefix)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
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

func title(config Config, text string) {
	if config.Colours {
		text = color.New(color.BgBlack, color.FgGreen).Render(text)
	}
	fmt.Println(text)
}

func printConversation(config Config, db *badger.DB, a, b domain.Identity) error {
	messages, err := repositories.NewMessageRepository(db, slog.Default(), nil).Conversation(a, b)
	if err != nil {
		return err
	}
	title(config, fmt.Sprintf("Conversation %s <-> %s (%d messages)", a, b, len(messages)))
	table := newTable("Timestamp", "From", "To", "Message")
	for _, m := range messages {
		table.Append([]string{m.Timestamp.Format("2006-01-02 15:04:05"), m.From.String(), m.To.String(), m.Content})
	}
	table.Render()
	return nil
}

func printPrefix(config Config, db *badger.DB, prefix string) error {
	title(config, fmt.Sprintf("Entries under %q", prefix))
	table := newTable("Key", "Type", "Timestamp", "From", "To", "Detail")
	err := scan(db, prefix, func(row internal.InspectRow) {
		table.Append([]string{row.Key, row.Type, row.Timestamp, row.From, row.To, row.Detail})
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func printQueueDepth(config Config, db *badger.DB) error {
	depth := make(map[string]int)
	err := scan(db, "queue:", func(row internal.InspectRow) {
		depth[row.To]++
	})
	if err != nil {
		return err
	}

	recipients := make([]string, 0, len(depth))
	for r := range depth {
		recipients = append(recipients, r)
	}
	sort.Strings(recipients)

	title(config, "Offline queues")
	table := newTable("Recipient", "Pending")
	for _, r := range recipients {
		table.Append([]string{r, fmt.Sprint(depth[r])})
	}
	table.Render()
	return nil
}

func scan(db *badger.DB, prefix string, fn func(internal.InspectRow)) error {
	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if err := item.Value(func(v []byte) error {
				fn(internal.MessageMapper(key, v))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
