package report

import (
	"encoding/json"
	"os"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// generateJSON writes the report as indented JSON
func (g *Generator) generateJSON(report *models.ScanReport, outputFile string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}
