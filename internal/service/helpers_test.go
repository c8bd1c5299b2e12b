package service_test

import (
	"strconv"
	"time"

	"github.com/Freeeeeet/pesopolis/internal/model"
)

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func date(s string) time.Time {
	ts, err := model.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts.Time
}

func timestamp(s string) *model.Timestamp {
	ts := model.NewTimestamp(date(s))
	return &ts
}
