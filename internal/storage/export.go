package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/traysim/internal/dynamo"
)

type ExportData struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name,omitempty"`
	Result *dynamo.Result `json:"result"`
}

func ExportJSON(path string, meta *RunMetadata, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, result)
}

func WriteJSON(w io.Writer, meta *RunMetadata, result *dynamo.Result) error {
	data := ExportData{Result: result}
	if meta != nil {
		data.ID = meta.ID
		data.Name = meta.Name
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
