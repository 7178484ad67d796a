package internal

import (
	"chat-relay/domain"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const inspectPage = `<!doctype html>
<html><head><title>relay inspect {{.Prefix}}</title></head>
<body>
<form><input name="prefix" value="{{.Prefix}}"><button>scan</button></form>
<table>
<tr><th>Key</th><th>Type</th><th>Timestamp</th><th>From</th><th>To</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Type}}</td><td>{{.Timestamp}}</td><td>{{.From}}</td><td>{{.To}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body></html>`

// InspectRow is one badger entry as shown by the inspector.
type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	From      string
	To        string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow

type PageData struct {
	Prefix string
	Items  []InspectRow
}

// NewDebugHandler lists the badger entries under a prefix, message stores and offline queues alike.
// It is mounted only when the relay logs at debug level.
func NewDebugHandler(log *slog.Logger, db *badger.DB, mapper RowMapper) http.Handler {
	tmpl := template.Must(template.New("inspect").Parse(inspectPage))
	if mapper == nil {
		mapper = MessageMapper
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /inspect", func(w http.ResponseWriter, r *http.Request) {
		data := PageData{Prefix: r.URL.Query().Get("prefix")}
		if data.Prefix == "" {
			data.Prefix = "msg:"
		}

		err := db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(data.Prefix)); it.ValidForPrefix([]byte(data.Prefix)); it.Next() {
				item := it.Item()
				key := string(item.Key())
				if err := item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(key, val))
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Error("Inspect scan failed", "prefix", data.Prefix, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})
	return mux
}

// MessageMapper decodes the JSON message stored under msg: and queue: keys.
// Anything else is shown with its size only.
func MessageMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		From:      "-",
		To:        "-",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	namespace, _, _ := strings.Cut(key, ":")
	switch namespace {
	case "msg":
		row.Type = "MESSAGE"
	case "queue":
		row.Type = "QUEUED"
	default:
		return row
	}

	var message domain.Message
	if err := json.Unmarshal(val, &message); err != nil {
		row.Detail = fmt.Sprintf("Error: unmarshal failed (%v)", err)
		return row
	}
	row.Timestamp = message.Timestamp.Format("15:04:05")
	row.From = message.From.String()
	row.To = message.To.String()
	row.Detail = message.Content
	return row
}
