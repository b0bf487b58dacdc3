package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

func renderCSV(rows []Row) ([]byte, error) {
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return data, nil
}
