package utils

import (
	"encoding/csv"
	"os"
	"strconv"

	"lpHedgeSim/internal/simulation"
)

// WriteSeriesToCSV writes a projection series to a CSV file with one row per day.
func WriteSeriesToCSV(points []simulation.Point, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"day", "total_value", "hold_value", "earned_fees"})

	for _, p := range points {
		writer.Write([]string{
			strconv.Itoa(p.Day),
			strconv.FormatFloat(p.TotalValue, 'f', -1, 64),
			strconv.FormatFloat(p.HoldValue, 'f', -1, 64),
			strconv.FormatFloat(p.EarnedFees, 'f', -1, 64),
		})
	}
	return writer.Error()
}
