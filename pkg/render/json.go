package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer encodes reports as a JSON array.
type JSONRenderer struct {
	Indent string
}

func (JSONRenderer) Name() string        { return FormatJSON }
func (JSONRenderer) ContentType() string { return "application/json" }

func (r JSONRenderer) Render(_ context.Context, reports []Report) ([]byte, error) {
	if reports == nil {
		reports = []Report{}
	}
	var (
		out []byte
		err error
	)
	if r.Indent != "" {
		out, err = json.MarshalIndent(reports, "", r.Indent)
	} else {
		out, err = json.Marshal(reports)
	}
	if err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return append(out, '\n'), nil
}
