package output

import (
	"io"

	"github.com/go-faster/jx"
)

const (
	jsonIndentWidthConstant       = 2
	jsonPatternFieldConstant      = "pattern"
	jsonCountFieldConstant        = "count"
	jsonRepositoriesFieldConstant = "repositories"
	jsonPathFieldConstant         = "path"
	jsonRemotesFieldConstant      = "remotes"
	jsonNameFieldConstant         = "name"
	jsonURLFieldConstant          = "url"
	jsonTrailingNewlineConstant   = '\n'
)

// JSONRenderer writes the report as an indented JSON document.
type JSONRenderer struct{}

// Render writes the report followed by a newline.
func (JSONRenderer) Render(writer io.Writer, report Report) error {
	document := newReportDocument(report)

	encoder := &jx.Encoder{}
	encoder.SetIdent(jsonIndentWidthConstant)
	encoder.Obj(func(encoder *jx.Encoder) {
		encoder.Field(jsonPatternFieldConstant, func(encoder *jx.Encoder) { encoder.Str(document.Pattern) })
		encoder.Field(jsonCountFieldConstant, func(encoder *jx.Encoder) { encoder.Int(document.Count) })
		encoder.Field(jsonRepositoriesFieldConstant, func(encoder *jx.Encoder) {
			encoder.Arr(func(encoder *jx.Encoder) {
				for _, repository := range document.Repositories {
					encodeRepository(encoder, repository)
				}
			})
		})
	})

	_, writeError := writer.Write(append(encoder.Bytes(), jsonTrailingNewlineConstant))
	return writeError
}

func encodeRepository(encoder *jx.Encoder, repository repositoryDocument) {
	encoder.Obj(func(encoder *jx.Encoder) {
		encoder.Field(jsonPathFieldConstant, func(encoder *jx.Encoder) { encoder.Str(repository.Path) })
		encoder.Field(jsonRemotesFieldConstant, func(encoder *jx.Encoder) {
			encoder.Arr(func(encoder *jx.Encoder) {
				for _, remote := range repository.Remotes {
					encoder.Obj(func(encoder *jx.Encoder) {
						encoder.Field(jsonNameFieldConstant, func(encoder *jx.Encoder) { encoder.Str(remote.Name) })
						encoder.Field(jsonURLFieldConstant, func(encoder *jx.Encoder) { encoder.Str(remote.URL) })
					})
				}
			})
		})
	})
}
