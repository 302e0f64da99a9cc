package historyrepo

import (
	"encoding/json"

	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

func encodeRecord(record prediction.Record) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeRecord(payload string) (prediction.Record, error) {
	var record prediction.Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return prediction.Record{}, err
	}
	return record, nil
}
