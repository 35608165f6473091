package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

const yamlIndentWidthConstant = 2

// YAMLRenderer writes the report as a YAML document with the same shape as the JSON output.
type YAMLRenderer struct{}

// Render encodes the report.
func (YAMLRenderer) Render(writer io.Writer, report Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentWidthConstant)
	if encodeError := encoder.Encode(newReportDocument(report)); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}
