package logsvc

import (
	"fmt"
	"log"

	"github.com/trezcool/afs/core"
)

type ConsoleLogger struct {
	std *log.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger) *ConsoleLogger {
	return &ConsoleLogger{std: std}
}

func (l ConsoleLogger) Info(msg string, keyvals ...interface{}) {
	l.std.Println(format(msg, keyvals))
}

func (l ConsoleLogger) Error(msg string, err error, keyvals ...interface{}) {
	l.std.Println(format(fmt.Sprintf("%s: %+v", msg, err), keyvals))
}

// expected fmt: msg | key, value, key, value...
func format(msg string, keyvals []interface{}) string {
	for i := 0; i+1 < len(keyvals); i += 2 {
		msg += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	return msg
}
