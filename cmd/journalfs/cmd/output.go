package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v2"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// tabler renders some data as a table
type tabler func(*uitable.Table)

func render(w io.Writer, format string, data interface{}, table tabler) error {
	switch format {
	case "json":
		buf, err := jsonAPI.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(buf))
		return err
	case "yaml":
		buf, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(buf)
		return err
	case "table", "":
		t := uitable.New()
		t.MaxColWidth = 80
		t.Wrap = true
		table(t)
		_, err := fmt.Fprintln(w, t)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

var bold = color.New(color.Bold).SprintFunc()

func header(columns ...interface{}) []interface{} {
	headers := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		headers = append(headers, bold(column))
	}
	return headers
}
