package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// NewLog opens (or creates) <dir><name>.log for appending.
func NewLog(dir, name string) *log.Logger {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		panic(err)
	}
	fileName := fmt.Sprintf("%s%s.log", dir, name)
	file, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		panic(err)
	}
	return log.New(file, "", log.LstdFlags|log.Lmicroseconds)
}

// MicrosTime formats a microsecond timestamp id.
func MicrosTime(id uint64) string {
	return time.Unix(int64(id)/1000000, int64(id)%1000000*1000).Format("2006-01-02 15:04:05.000000")
}
