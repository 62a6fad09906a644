package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// One JSON line per event on stdout. Request logs, audit lines and anything
// else the service prints all share this logger so output never interleaves
// mid-line.
var (
	once sync.Once
	std  *log.Logger
)

// Logger returns the process-wide line logger.
func Logger() *log.Logger {
	once.Do(func() {
		std = log.New(os.Stdout, "", 0)
	})
	return std
}

// LogRequest serializes the entry as one JSON object. Entries that cannot be
// marshalled are reported rather than dropped silently.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Printf(`{"level":"error","msg":"request log marshal: %v"}`, err)
		return
	}
	Logger().Println(string(data))
}
