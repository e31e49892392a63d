package report

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// generateMsgpack writes the report in MessagePack, a compact binary form for
// downstream tooling that ingests many reports.
func (g *Generator) generateMsgpack(report *models.ScanReport, outputFile string) error {
	data, err := msgpack.Marshal(report)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}

// DecodeMsgpack reads a report previously written with the msgpack format.
func DecodeMsgpack(data []byte) (*models.ScanReport, error) {
	var report models.ScanReport
	if err := msgpack.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
